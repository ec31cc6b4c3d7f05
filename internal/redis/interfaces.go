package redis

import (
	"context"
	"time"
)

// OrderLockStoreInterface defines the interface for per-order locking.
type OrderLockStoreInterface interface {
	AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, bool, error)
	ReleaseOrderLock(ctx context.Context, orderID, token string) error
}

// Ensure concrete types implement interfaces.
var _ OrderLockStoreInterface = (*LockStore)(nil)
