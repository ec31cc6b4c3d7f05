package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jouyai/midtrans-dik/internal/domain"
	"github.com/jouyai/midtrans-dik/internal/events"
	"github.com/jouyai/midtrans-dik/internal/gateway"
	"github.com/jouyai/midtrans-dik/internal/metrics"
	internalRedis "github.com/jouyai/midtrans-dik/internal/redis"
	"github.com/jouyai/midtrans-dik/internal/repository"
)

// StatusQuerier is the interface for the gateway's transaction status API.
type StatusQuerier interface {
	TransactionStatus(ctx context.Context, orderID string) (*gateway.TransactionStatusResponse, error)
}

// Reconciliation outcomes, used as metric labels.
const (
	OutcomeUpdated      = "updated"
	OutcomeUnchanged    = "unchanged"
	OutcomeNotFound     = "not_found"
	OutcomeGatewayError = "gateway_error"
	OutcomeStoreError   = "store_error"
	OutcomeLocked       = "locked"
)

// StatusService reconciles order documents with the gateway's transaction status.
type StatusService struct {
	core      StatusQuerier
	orders    repository.OrderRepository
	locks     internalRedis.OrderLockStoreInterface
	lockTTL   time.Duration
	publisher events.Publisher
}

// NewStatusService creates a new StatusService. locks may be nil to run without
// per-order locking; publisher may be nil to disable status events.
func NewStatusService(
	core StatusQuerier,
	orders repository.OrderRepository,
	locks internalRedis.OrderLockStoreInterface,
	lockTTL time.Duration,
	publisher events.Publisher,
) *StatusService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &StatusService{
		core:      core,
		orders:    orders,
		locks:     locks,
		lockTTL:   lockTTL,
		publisher: publisher,
	}
}

// ReconcileResult is the outcome of one reconciliation.
type ReconcileResult struct {
	OrderID        string
	DocumentID     string
	GatewayStatus  domain.TransactionStatus
	PreviousStatus domain.OrderStatus
	Status         domain.OrderStatus
	Found          bool
	Updated        bool
	// Locked is set when another reconciliation held the order; the store was
	// left to it.
	Locked bool
}

// Reconcile queries the gateway for orderID, maps the status and writes it to
// the matching order document. A missing order is not an error: the mapped
// status is still returned. So is a held order lock, without touching the store.
func (s *StatusService) Reconcile(ctx context.Context, orderID string) (*ReconcileResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrInvalidOrderID
	}

	txn, err := s.core.TransactionStatus(ctx, orderID)
	if err != nil {
		metrics.IncReconciliation("unknown", OutcomeGatewayError)
		return nil, fmt.Errorf("transaction status %s: %w", orderID, err)
	}

	status := domain.MapTransactionStatus(txn.TransactionStatus)
	result := &ReconcileResult{
		OrderID:       orderID,
		GatewayStatus: txn.TransactionStatus,
		Status:        status,
	}

	release, held := s.acquireLock(ctx, orderID)
	if held {
		metrics.IncReconciliation(string(status), OutcomeLocked)
		result.Locked = true
		return result, nil
	}
	defer release()

	order, err := s.orders.FindByGatewayOrderID(ctx, orderID)
	if err != nil {
		metrics.IncReconciliation(string(status), OutcomeStoreError)
		return nil, fmt.Errorf("%w: %s: %w", ErrOrderLookupFailed, orderID, err)
	}
	if order == nil {
		metrics.IncReconciliation(string(status), OutcomeNotFound)
		return result, nil
	}

	result.Found = true
	result.DocumentID = order.ID
	result.PreviousStatus = order.Status

	if order.Status == status {
		metrics.IncReconciliation(string(status), OutcomeUnchanged)
		return result, nil
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		metrics.IncReconciliation(string(status), OutcomeStoreError)
		return nil, fmt.Errorf("%w: order %s: %w", ErrOrderUpdateFailed, order.ID, err)
	}
	result.Updated = true
	metrics.IncReconciliation(string(status), OutcomeUpdated)
	log.Printf("order %s (%s): status %q -> %q", order.ID, orderID, order.Status, status)

	err = s.publisher.PublishStatusChanged(ctx, events.StatusChangedEvent{
		GatewayOrderID: orderID,
		DocumentID:     order.ID,
		PreviousStatus: order.Status,
		Status:         status,
		GatewayStatus:  txn.TransactionStatus,
	})
	if err != nil {
		log.Printf("order %s: failed to publish status event: %v", order.ID, err)
	}

	return result, nil
}

// acquireLock takes the per-order lock when a lock store is configured. Lock
// store failures degrade to last-write-wins instead of failing the request.
// held reports that another caller owns the lock.
func (s *StatusService) acquireLock(ctx context.Context, orderID string) (release func(), held bool) {
	if s.locks == nil {
		return func() {}, false
	}

	token, ok, err := s.locks.AcquireOrderLock(ctx, orderID, s.lockTTL)
	if err != nil {
		log.Printf("order %s: lock store unavailable, reconciling unlocked: %v", orderID, err)
		return func() {}, false
	}
	if !ok {
		return nil, true
	}

	return func() {
		if err := s.locks.ReleaseOrderLock(context.WithoutCancel(ctx), orderID, token); err != nil {
			log.Printf("order %s: failed to release lock: %v", orderID, err)
		}
	}, false
}
