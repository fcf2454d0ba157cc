package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// Statuses lists every status in the order the editor offers them.
var Statuses = []OrderStatus{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus is exact and case-sensitive.
func ParseStatus(s string) (OrderStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s OrderStatus) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

type Order struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customerName"`
	Date         string          `json:"date"`
	Status       OrderStatus     `json:"status"`
	Total        decimal.Decimal `json:"total"`
}

type AnalyticsSummary struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalOrders   int64           `json:"totalOrders"`
	Revenue       decimal.Decimal `json:"revenue"`
	PendingOrders int64           `json:"pendingOrders"`
}
