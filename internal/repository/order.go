package repository

import (
	"context"

	"github.com/jouyai/midtrans-dik/internal/domain"
)

// OrderRepository defines the persistence operations for order documents.
type OrderRepository interface {
	// FindByGatewayOrderID retrieves the first order whose snap_result.order_id
	// equals gatewayOrderID. Returns nil if no order matches.
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)

	// UpdateStatus overwrites only the status field of an order.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
