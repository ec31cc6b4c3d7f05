package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/newrelic/go-agent/v3/newrelic"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jouyai/midtrans-dik/internal/domain"
	"github.com/jouyai/midtrans-dik/internal/repository"
)

const (
	gatewayOrderIDPath = "snap_result.order_id"
	statusField        = "status"

	datastoreFirestore = newrelic.DatastoreProduct("Firestore")
)

// OrderRepository is a Firestore implementation of repository.OrderRepository.
type OrderRepository struct {
	client     *firestore.Client
	collection string
}

// NewOrderRepository creates a new Firestore order repository.
func NewOrderRepository(client *firestore.Client, collection string) *OrderRepository {
	return &OrderRepository{client: client, collection: collection}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// FindByGatewayOrderID retrieves the first order whose snap_result.order_id equals
// gatewayOrderID. Returns nil if no order matches.
func (r *OrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	segment := r.startSegment(ctx, "query")
	defer endSegment(segment)

	iter := r.client.Collection(r.collection).
		Where(gatewayOrderIDPath, "==", gatewayOrderID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}

	return toOrder(doc), nil
}

// UpdateStatus overwrites only the status field of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, orderStatus domain.OrderStatus) error {
	segment := r.startSegment(ctx, "update")
	defer endSegment(segment)

	_, err := r.client.Collection(r.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: statusField, Value: string(orderStatus)},
	})
	if err != nil {
		return translateError(err)
	}
	return nil
}

func toOrder(doc *firestore.DocumentSnapshot) *domain.Order {
	order := &domain.Order{ID: doc.Ref.ID}
	if v, err := doc.DataAt(gatewayOrderIDPath); err == nil {
		order.SnapResult.OrderID, _ = v.(string)
	}
	if v, err := doc.DataAt(statusField); err == nil {
		s, _ := v.(string)
		order.Status = domain.OrderStatus(s)
	}
	return order
}

func translateError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return repository.ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, err)
	default:
		return err
	}
}

func (r *OrderRepository) startSegment(ctx context.Context, operation string) *newrelic.DatastoreSegment {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    datastoreFirestore,
		Collection: r.collection,
		Operation:  operation,
	}
}

func endSegment(segment *newrelic.DatastoreSegment) {
	if segment != nil {
		segment.End()
	}
}
