package runtime

import (
	"io"
	"log/slog"
)

func NewLogger(w io.Writer, level slog.Level, version string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(slog.String("app", "admin_console"), slog.String("version", version))
}
