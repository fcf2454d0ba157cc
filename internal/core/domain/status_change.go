package domain

import (
	"errors"
	"time"
)

// StatusChange records one acknowledged status update made from the console.
type StatusChange struct {
	OrderID   int64       `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	SessionID string      `json:"session_id"`
	ChangedAt time.Time   `json:"changed_at"`
}

func (c StatusChange) Validate() error {
	if c.OrderID < 0 {
		return errors.New("order_id must not be negative")
	}
	if !c.To.Valid() {
		return ErrInvalidStatus
	}
	if c.From != "" && !c.From.Valid() {
		return ErrInvalidStatus
	}
	if c.ChangedAt.IsZero() {
		return errors.New("changed_at is required")
	}
	return nil
}
