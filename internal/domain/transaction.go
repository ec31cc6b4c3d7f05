package domain

// TransactionStatus is the gateway's transaction_status vocabulary.
type TransactionStatus string

const (
	TransactionStatusSettlement    TransactionStatus = "settlement"
	TransactionStatusCapture       TransactionStatus = "capture"
	TransactionStatusPending       TransactionStatus = "pending"
	TransactionStatusDeny          TransactionStatus = "deny"
	TransactionStatusCancel        TransactionStatus = "cancel"
	TransactionStatusExpire        TransactionStatus = "expire"
	TransactionStatusRefund        TransactionStatus = "refund"
	TransactionStatusPartialRefund TransactionStatus = "partial_refund"
	TransactionStatusAuthorize     TransactionStatus = "authorize"
)

// MapTransactionStatus translates a gateway status into the order label.
// Unknown values map to OrderStatusPending.
func MapTransactionStatus(status TransactionStatus) OrderStatus {
	switch status {
	case TransactionStatusSettlement, TransactionStatusCapture:
		return OrderStatusPaid
	case TransactionStatusExpire, TransactionStatusCancel, TransactionStatusDeny:
		return OrderStatusFailed
	default:
		return OrderStatusPending
	}
}
