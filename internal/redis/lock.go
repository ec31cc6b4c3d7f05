package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const orderLockPrefix = "lock:order:"

// releaseScript deletes the lock only if it still holds the caller's token, so
// a slow holder cannot release a lock that expired and was taken by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles per-order reconciliation locks in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireOrderLock attempts to acquire the reconciliation lock for a gateway order id.
// Returns the lock token and true if the lock was acquired, false if already held.
func (s *LockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, orderLockPrefix+orderID, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// ReleaseOrderLock releases the lock for the given order if token still owns it.
func (s *LockStore) ReleaseOrderLock(ctx context.Context, orderID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{orderLockPrefix + orderID}, token).Err()
}
