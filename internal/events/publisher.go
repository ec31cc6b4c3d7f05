package events

import (
	"context"
	"time"

	"github.com/jouyai/midtrans-dik/internal/domain"
)

// EventTypeStatusChanged is emitted after an order status is rewritten.
const EventTypeStatusChanged = "order.status_changed"

// StatusChangedEvent describes one order status transition.
type StatusChangedEvent struct {
	ID             string                   `json:"id"`
	Type           string                   `json:"type"`
	GatewayOrderID string                   `json:"gateway_order_id"`
	DocumentID     string                   `json:"document_id"`
	PreviousStatus domain.OrderStatus       `json:"previous_status"`
	Status         domain.OrderStatus       `json:"status"`
	GatewayStatus  domain.TransactionStatus `json:"gateway_status"`
	OccurredAt     time.Time                `json:"occurred_at"`
}

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
	Close() error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) PublishStatusChanged(context.Context, StatusChangedEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
