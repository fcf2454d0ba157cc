package httpin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"admin_console/internal/core/dashboard"
	"admin_console/internal/core/domain"
	"admin_console/internal/ports/inbound"

	"github.com/starfederation/datastar-go/datastar"
)

// UI serves the page shell and the Datastar endpoints that drive it. Every
// endpoint answers by re-patching the whole #dashboard element.
type UI struct {
	uc       inbound.DashboardUseCase
	sessions *SessionManager
	render   *Renderer
	log      *slog.Logger
}

func NewUI(uc inbound.DashboardUseCase, sessions *SessionManager, render *Renderer, log *slog.Logger) *UI {
	return &UI{uc: uc, sessions: sessions, render: render, log: log.With(slog.String("component", "ui"))}
}

// pageSignals are the Datastar signals every dashboard request carries. vid
// names the view owned by the page, so tabs sharing a cookie stay separate.
type pageSignals struct {
	ViewID string `json:"vid"`
	Status string `json:"status"`
}

// signals reads the request's signals before any response is written. The
// view id falls back to the session cookie when the page sent none.
func (u *UI) signals(r *http.Request) (pageSignals, error) {
	var s pageSignals
	err := datastar.ReadSignals(r, &s)
	if s.ViewID == "" {
		s.ViewID = u.sessions.ID(r)
	}
	return s, err
}

// Index opens a new view for every page load. Views of other tabs that share
// the cookie are left alone; they end on pagehide or when swept as idle.
func (u *UI) Index(w http.ResponseWriter, r *http.Request) {
	vid := u.uc.OpenSession(r.Context())
	if err := u.sessions.Save(w, r, vid); err != nil {
		u.log.Error("save session", slog.Any("err", err))
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := u.render.Page(w, vid); err != nil {
		u.log.Error("render page", slog.Any("err", err))
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (u *UI) MountSSE(w http.ResponseWriter, r *http.Request) {
	sig, _ := u.signals(r)
	sse := datastar.NewSSE(w, r)

	st, err := u.uc.Snapshot(r.Context(), sig.ViewID)
	if err != nil {
		u.patchFailure(sse, err)
		return
	}
	u.patchDashboard(sse, st)
	// A reconnecting browser gets the current view; only Reload fetches again.
	if st.Phase() != dashboard.PhaseLoading {
		return
	}

	st, err = u.uc.Mount(r.Context(), sig.ViewID)
	if err != nil {
		u.patchFailure(sse, err)
		return
	}
	u.patchDashboard(sse, st)
}

func (u *UI) ReloadSSE(w http.ResponseWriter, r *http.Request) {
	sig, _ := u.signals(r)
	sse := datastar.NewSSE(w, r)

	u.patchDashboard(sse, dashboard.State{Loading: true})
	st, err := u.uc.Reload(r.Context(), sig.ViewID)
	if err != nil {
		u.patchFailure(sse, err)
		return
	}
	u.patchDashboard(sse, st)
}

func (u *UI) ViewOrderSSE(w http.ResponseWriter, r *http.Request) {
	sig, _ := u.signals(r)
	id, ok := orderIDParam(r)
	sse := datastar.NewSSE(w, r)

	if !ok {
		st, err := u.uc.Snapshot(r.Context(), sig.ViewID)
		if err != nil {
			u.patchFailure(sse, err)
			return
		}
		u.patchDashboard(sse, st)
		return
	}

	st, err := u.uc.ViewOrder(r.Context(), sig.ViewID, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.patchFailure(sse, err)
		return
	}
	if err != nil {
		u.log.Warn("view unknown order", slog.Int64("order_id", id))
	}
	u.patchDashboard(sse, st)
	u.patchStatusSignal(sse, st)
}

func (u *UI) CloseModalSSE(w http.ResponseWriter, r *http.Request) {
	sig, _ := u.signals(r)
	sse := datastar.NewSSE(w, r)

	st, err := u.uc.CloseModal(r.Context(), sig.ViewID)
	if err != nil {
		u.patchFailure(sse, err)
		return
	}
	u.patchDashboard(sse, st)
}

func (u *UI) UpdateStatusSSE(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	sig, sigErr := u.signals(r)
	sse := datastar.NewSSE(w, r)

	if !ok || sigErr != nil {
		// Routed through the view so the modal shows the failure banner.
		sig.Status = ""
	}

	st, err := u.uc.UpdateStatus(r.Context(), sig.ViewID, id, sig.Status)
	if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrUnmounted) {
		u.patchFailure(sse, err)
		return
	}
	if err != nil {
		u.log.Warn("update status", slog.Int64("order_id", id), slog.Any("err", err))
	}
	u.patchDashboard(sse, st)
	u.patchStatusSignal(sse, st)
}

// Unmount ends the page's view. The cookie is cleared only when it still
// points at that view; another tab may own it by now.
func (u *UI) Unmount(w http.ResponseWriter, r *http.Request) {
	sig, _ := u.signals(r)
	if sig.ViewID != "" {
		u.uc.CloseSession(r.Context(), sig.ViewID)
	}
	if sig.ViewID == u.sessions.ID(r) {
		if err := u.sessions.Clear(w, r); err != nil {
			u.log.Warn("clear session", slog.Any("err", err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (u *UI) FooterSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	html, err := u.render.Footer()
	if err != nil {
		u.log.Error("render footer", slog.Any("err", err))
		return
	}
	u.patch(sse, html)
}

func (u *UI) patchDashboard(sse *datastar.ServerSentEventGenerator, st dashboard.State) {
	html, err := u.render.Dashboard(st)
	if err != nil {
		u.log.Error("render dashboard", slog.Any("err", err))
		return
	}
	u.patch(sse, html)
}

// patchStatusSignal resets the bound status signal to the selected order, so
// the dropdown does not carry over the value of a previously opened order.
func (u *UI) patchStatusSignal(sse *datastar.ServerSentEventGenerator, st dashboard.State) {
	if !st.ModalOpen || st.Selected == nil {
		return
	}
	if err := sse.MarshalAndPatchSignals(map[string]string{"status": string(st.Selected.Status)}); err != nil {
		u.log.Debug("patch signals", slog.Any("err", err))
	}
}

func (u *UI) patchFailure(sse *datastar.ServerSentEventGenerator, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if !errors.Is(err, domain.ErrSessionExpired) && !errors.Is(err, domain.ErrUnmounted) {
		u.log.Error("dashboard operation", slog.Any("err", err))
	}
	html, rerr := u.render.Expired()
	if rerr != nil {
		u.log.Error("render expired", slog.Any("err", rerr))
		return
	}
	u.patch(sse, html)
}

func (u *UI) patch(sse *datastar.ServerSentEventGenerator, html string) {
	if err := sse.PatchElements(html); err != nil {
		u.log.Debug("patch elements", slog.Any("err", err))
	}
}
