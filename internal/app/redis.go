package app

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/jouyai/midtrans-dik/internal/config"
)

// NewRedisClient connects to the Redis instance backing order locks and
// idempotency keys. Commands run inside a New Relic transaction are recorded
// as datastore segments when nrApp is set.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(nrRedisHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return client, nil
}

type nrRedisHook struct{}

func (nrRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (nrRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		defer redisSegment(ctx, cmd.Name()).End()
		return next(ctx, cmd)
	}
}

func (nrRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		defer redisSegment(ctx, "pipeline").End()
		return next(ctx, cmds)
	}
}

// redisSegment starts a datastore segment for the transaction in ctx. The
// returned segment is a no-op when there is no transaction.
func redisSegment(ctx context.Context, operation string) *newrelic.DatastoreSegment {
	txn := newrelic.FromContext(ctx)
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  operation,
		Collection: "redis",
	}
}
