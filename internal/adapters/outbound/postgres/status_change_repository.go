package postgres

import (
	"context"
	"fmt"

	"admin_console/internal/core/domain"
	"admin_console/internal/ports/outbound"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatusChangeRepository struct {
	pool *pgxpool.Pool
}

func NewStatusChangeRepository(pool *pgxpool.Pool) *StatusChangeRepository {
	return &StatusChangeRepository{pool: pool}
}

// Insert is idempotent for redelivered events.
func (r *StatusChangeRepository) Insert(ctx context.Context, c domain.StatusChange) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_status_changes (order_id, from_status, to_status, session_id, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id, to_status, session_id, changed_at) DO NOTHING
	`, c.OrderID, string(c.From), string(c.To), c.SessionID, c.ChangedAt)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

func (r *StatusChangeRepository) ListByOrder(ctx context.Context, orderID int64, limit int) ([]domain.StatusChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id, from_status, to_status, session_id, changed_at
		FROM order_status_changes
		WHERE order_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT $2
	`, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("query status changes: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanStatusChange)
	if err != nil {
		return nil, fmt.Errorf("scan status changes: %w", err)
	}
	if out == nil {
		out = []domain.StatusChange{}
	}
	return out, nil
}

func scanStatusChange(row pgx.CollectableRow) (domain.StatusChange, error) {
	var (
		c        domain.StatusChange
		from, to string
	)
	if err := row.Scan(&c.OrderID, &from, &to, &c.SessionID, &c.ChangedAt); err != nil {
		return domain.StatusChange{}, err
	}
	c.From = domain.OrderStatus(from)
	c.To = domain.OrderStatus(to)
	return c, nil
}

var _ outbound.StatusChangeRepository = (*StatusChangeRepository)(nil)
