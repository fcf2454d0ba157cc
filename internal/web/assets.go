package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/*
var fsys embed.FS

func FS() (fs.FS, error) {
	return fs.Sub(fsys, ".")
}

func MustFS() fs.FS {
	f, err := FS()
	if err != nil {
		panic(err)
	}
	return f
}

// Static holds the files served under /static/.
func Static() fs.FS {
	f, err := fs.Sub(fsys, "static")
	if err != nil {
		panic(err)
	}
	return f
}
