package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"admin_console/internal/core/dashboard"
	"admin_console/internal/core/domain"
	"admin_console/internal/ports/inbound"
	"admin_console/internal/ports/outbound"

	"github.com/google/uuid"
)

type DashboardService struct {
	backend   outbound.OrdersBackend
	views     outbound.ViewStore[*dashboard.View]
	publisher outbound.StatusChangePublisher
	audit     outbound.StatusChangeRepository
	log       *slog.Logger
}

// NewDashboardService wires the dashboard. publisher and audit may be nil,
// in which case status changes are neither published nor queryable.
func NewDashboardService(
	backend outbound.OrdersBackend,
	views outbound.ViewStore[*dashboard.View],
	publisher outbound.StatusChangePublisher,
	audit outbound.StatusChangeRepository,
	log *slog.Logger,
) *DashboardService {
	if log == nil {
		log = slog.Default()
	}
	return &DashboardService{
		backend:   backend,
		views:     views,
		publisher: publisher,
		audit:     audit,
		log:       log,
	}
}

func (s *DashboardService) OpenSession(ctx context.Context) string {
	id := uuid.NewString()
	s.views.Set(ctx, id, dashboard.NewView(s.backend, s.log.With(slog.String("session_id", id))))
	return id
}

func (s *DashboardService) view(ctx context.Context, sessionID string) (*dashboard.View, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionExpired
	}
	v, ok := s.views.Get(ctx, sessionID)
	if !ok || !v.Mounted() {
		return nil, domain.ErrSessionExpired
	}
	return v, nil
}

func (s *DashboardService) Snapshot(ctx context.Context, sessionID string) (dashboard.State, error) {
	v, err := s.view(ctx, sessionID)
	if err != nil {
		return dashboard.State{}, err
	}
	return v.Snapshot(), nil
}

// Mount runs the initial fetch. A load failure is part of the returned
// state, not an error; errors mean there is no view to render.
func (s *DashboardService) Mount(ctx context.Context, sessionID string) (dashboard.State, error) {
	v, err := s.view(ctx, sessionID)
	if err != nil {
		return dashboard.State{}, err
	}
	if err := v.Mount(ctx); err != nil {
		if dashboard.IsUnmounted(err) || errors.Is(err, context.Canceled) {
			return dashboard.State{}, err
		}
	}
	return v.Snapshot(), nil
}

func (s *DashboardService) Reload(ctx context.Context, sessionID string) (dashboard.State, error) {
	v, err := s.view(ctx, sessionID)
	if err != nil {
		return dashboard.State{}, err
	}
	v.CloseModal()
	return s.Mount(ctx, sessionID)
}

func (s *DashboardService) ViewOrder(ctx context.Context, sessionID string, orderID int64) (dashboard.State, error) {
	v, err := s.view(ctx, sessionID)
	if err != nil {
		return dashboard.State{}, err
	}
	if err := v.ViewOrder(orderID); err != nil {
		return v.Snapshot(), err
	}
	return v.Snapshot(), nil
}

func (s *DashboardService) CloseModal(ctx context.Context, sessionID string) (dashboard.State, error) {
	v, err := s.view(ctx, sessionID)
	if err != nil {
		return dashboard.State{}, err
	}
	v.CloseModal()
	return v.Snapshot(), nil
}

// UpdateStatus applies the change through the view and publishes it once the
// backend acknowledged it. Publishing is best effort.
func (s *DashboardService) UpdateStatus(ctx context.Context, sessionID string, orderID int64, status string) (dashboard.State, error) {
	v, err := s.view(ctx, sessionID)
	if err != nil {
		return dashboard.State{}, err
	}

	change, err := v.UpdateStatus(ctx, orderID, domain.OrderStatus(status))
	if !change.ChangedAt.IsZero() {
		change.SessionID = sessionID
		s.publish(ctx, change)
	}
	if err != nil {
		if dashboard.IsUnmounted(err) {
			return dashboard.State{}, err
		}
		return v.Snapshot(), err
	}
	return v.Snapshot(), nil
}

func (s *DashboardService) publish(ctx context.Context, change domain.StatusChange) {
	if s.publisher == nil {
		return
	}
	// The request may already be gone; the backend write is not.
	ctx = context.WithoutCancel(ctx)
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.log.Error("publish status change failed",
			slog.Int64("order_id", change.OrderID),
			slog.Any("err", err),
		)
	}
}

func (s *DashboardService) CloseSession(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	s.views.Delete(ctx, sessionID)
}

func (s *DashboardService) History(ctx context.Context, orderID int64, limit int) ([]domain.StatusChange, error) {
	if s.audit == nil {
		return []domain.StatusChange{}, nil
	}
	switch {
	case limit <= 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	out, err := s.audit.ListByOrder(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("db list status changes: %w", err)
	}
	return out, nil
}

// Ingest stores a status change delivered by the event consumer.
func (s *DashboardService) Ingest(ctx context.Context, change domain.StatusChange) error {
	if s.audit == nil {
		return nil
	}
	if err := change.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := s.audit.Insert(ctx, change); err != nil {
		return fmt.Errorf("db insert: %w", err)
	}
	return nil
}

var _ inbound.DashboardUseCase = (*DashboardService)(nil)
