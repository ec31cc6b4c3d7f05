package domain

import "encoding/json"

// OrderStatus is the internal, customer-facing payment label stored on an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Menunggu Konfirmasi"
	OrderStatusPaid    OrderStatus = "Sudah dibayar"
	OrderStatusFailed  OrderStatus = "Gagal"
)

// Order is the order document owned by the storefront. This service only reads
// the gateway order id and rewrites Status.
type Order struct {
	ID         string
	SnapResult SnapResult
	Status     OrderStatus
}

// SnapResult is the nested snapshot of the checkout session saved by the frontend.
type SnapResult struct {
	OrderID string
}

// TransactionRequest holds the checkout details forwarded to the gateway.
// GrossAmount is the caller's JSON value, unparsed.
type TransactionRequest struct {
	OrderID     string
	GrossAmount json.RawMessage
	Name        string
	Email       string
}
