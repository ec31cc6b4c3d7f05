package app

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/newrelic/go-agent/v3/newrelic"
	"google.golang.org/api/option"

	"github.com/jouyai/midtrans-dik/internal/config"
	"github.com/jouyai/midtrans-dik/internal/events"
	"github.com/jouyai/midtrans-dik/internal/repository"
	firestorerepo "github.com/jouyai/midtrans-dik/internal/repository/firestore"
	"github.com/jouyai/midtrans-dik/internal/repository/postgres"
)

// NewFirestoreClient creates a Firestore client from the service-account JSON.
// FIRESTORE_EMULATOR_HOST is honoured by the client library.
func NewFirestoreClient(ctx context.Context, cfg config.StoreConfig) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("create firestore client for project %s: %w", cfg.ProjectID, err)
	}
	return client, nil
}

// NewOrderRepository opens the configured order store. The returned close
// function releases the underlying client.
func NewOrderRepository(ctx context.Context, cfg config.StoreConfig, nrApp *newrelic.Application) (repository.OrderRepository, func() error, error) {
	switch cfg.Driver {
	case config.StoreFirestore:
		client, err := NewFirestoreClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using Firestore order store: project=%s collection=%s", cfg.ProjectID, cfg.Collection)
		return firestorerepo.NewOrderRepository(client, cfg.Collection), client.Close, nil

	case config.StorePostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewOrderRepository(db, cfg.Collection)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure orders schema: %w", err)
		}
		log.Printf("Using PostgreSQL order store: table=%s", cfg.Collection)
		return repo, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown order store %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// NewPublisher returns the status event publisher, or a no-op one when Kafka
// is disabled.
func NewPublisher(cfg config.KafkaConfig) events.Publisher {
	if !cfg.Enabled {
		return events.NopPublisher{}
	}
	log.Printf("Publishing status events to kafka topic %s", cfg.StatusTopic)
	return events.NewKafkaPublisher(cfg.Brokers, cfg.StatusTopic)
}
