package httpin

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handlers, ui *UI, static fs.FS, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(recoverer(log))

	h.Register(r)

	r.Get("/", ui.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/ui", func(r chi.Router) {
		r.Get("/dashboard", ui.MountSSE)
		r.Post("/dashboard/reload", ui.ReloadSSE)
		r.Post("/dashboard/unmount", ui.Unmount)
		r.Get("/orders/{id}", ui.ViewOrderSSE)
		r.Patch("/orders/{id}/status", ui.UpdateStatusSSE)
		r.Post("/modal/close", ui.CloseModalSSE)
		r.Get("/footer", ui.FooterSSE)
	})

	return r
}
