package inbound

import (
	"context"

	"admin_console/internal/core/dashboard"
	"admin_console/internal/core/domain"
)

type DashboardUseCase interface {
	OpenSession(ctx context.Context) string
	Snapshot(ctx context.Context, sessionID string) (dashboard.State, error)
	Mount(ctx context.Context, sessionID string) (dashboard.State, error)
	Reload(ctx context.Context, sessionID string) (dashboard.State, error)
	ViewOrder(ctx context.Context, sessionID string, orderID int64) (dashboard.State, error)
	CloseModal(ctx context.Context, sessionID string) (dashboard.State, error)
	UpdateStatus(ctx context.Context, sessionID string, orderID int64, status string) (dashboard.State, error)
	CloseSession(ctx context.Context, sessionID string)
	History(ctx context.Context, orderID int64, limit int) ([]domain.StatusChange, error)
}
