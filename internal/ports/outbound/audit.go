package outbound

import (
	"context"

	"admin_console/internal/core/domain"
)

type StatusChangePublisher interface {
	Publish(ctx context.Context, change domain.StatusChange) error
}

type StatusChangeRepository interface {
	Insert(ctx context.Context, change domain.StatusChange) error
	ListByOrder(ctx context.Context, orderID int64, limit int) ([]domain.StatusChange, error)
}
