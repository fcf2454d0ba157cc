package httpin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"admin_console/internal/core/domain"
	"admin_console/internal/ports/inbound"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	uc  inbound.DashboardUseCase
	log *slog.Logger
}

func NewHandlers(uc inbound.DashboardUseCase, log *slog.Logger) *Handlers {
	return &Handlers{uc: uc, log: log}
}

func (h *Handlers) Register(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/api/orders/{id}/history", h.orderHistory)
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) orderHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		writeJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	changes, err := h.uc.History(r.Context(), id, intQuery(r, "limit", 50))
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("order history", slog.Int64("order_id", id), slog.Any("err", err))
		}
		writeJSONError(w, msg, status)
		return
	}

	writeJSON(w, changes, http.StatusOK)
}

// errorStatus maps domain errors to a response status and a client-safe message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid status"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func orderIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
