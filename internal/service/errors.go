package service

import "errors"

var (
	// ErrInvalidOrderID is returned when the gateway order id is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrOrderLookupFailed is returned when the order store query fails.
	ErrOrderLookupFailed = errors.New("order lookup failed")

	// ErrOrderUpdateFailed is returned when the new status cannot be written.
	ErrOrderUpdateFailed = errors.New("order status update failed")
)
