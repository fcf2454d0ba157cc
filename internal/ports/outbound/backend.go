package outbound

import (
	"context"

	"admin_console/internal/core/domain"
)

// OrdersBackend is the external REST API that owns orders and analytics.
type OrdersBackend interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetAnalytics(ctx context.Context) (domain.AnalyticsSummary, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}
