package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jouyai/midtrans-dik/internal/domain"
	"github.com/jouyai/midtrans-dik/internal/events"
	"github.com/jouyai/midtrans-dik/internal/gateway"
	"github.com/jouyai/midtrans-dik/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway implements SnapCreator and StatusQuerier.
type MockGateway struct {
	mu       sync.RWMutex
	statuses map[string]domain.TransactionStatus

	// Counters for verification
	CreateCallCount int32
	StatusCallCount int32

	// Last request seen by CreateTransaction
	LastSnapRequest gateway.SnapRequest

	// Canned responses / error injection
	Token       string
	CreateError error
	StatusError error
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		statuses: make(map[string]domain.TransactionStatus),
		Token:    "snap-token",
	}
}

// SetStatus sets the gateway status reported for an order.
func (m *MockGateway) SetStatus(orderID string, status domain.TransactionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[orderID] = status
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req gateway.SnapRequest) (*gateway.SnapResponse, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	m.LastSnapRequest = req
	m.mu.Unlock()
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	return &gateway.SnapResponse{Token: m.Token}, nil
}

func (m *MockGateway) TransactionStatus(ctx context.Context, orderID string) (*gateway.TransactionStatusResponse, error) {
	atomic.AddInt32(&m.StatusCallCount, 1)
	if m.StatusError != nil {
		return nil, m.StatusError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.statuses[orderID]
	if !ok {
		return nil, &gateway.Error{
			Operation:     "core_transaction_status",
			StatusCode:    404,
			StatusMessage: "Transaction doesn't exist.",
		}
	}
	return &gateway.TransactionStatusResponse{OrderID: orderID, TransactionStatus: status}, nil
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	FindCallCount   int32
	UpdateCallCount int32

	// Error injection
	FindError   error
	UpdateError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	atomic.AddInt32(&m.FindCallCount, 1)
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.SnapResult.OrderID == gatewayOrderID {
			found := *o
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	return nil
}

// GetOrder returns an order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory OrderLockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]string

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]string)}
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, bool, error) {
	n := atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[orderID]; held {
		return "", false, nil
	}
	token := fmt.Sprintf("%s-%d", orderID, n)
	m.locks[orderID] = token
	return token, true, nil
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[orderID] == token {
		delete(m.locks, orderID)
	}
	return nil
}

// Hold marks an order as locked by someone else.
func (m *MockLockStore) Hold(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[orderID] = "other"
}

// IsHeld reports whether an order lock is currently held.
func (m *MockLockStore) IsHeld(orderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, held := m.locks[orderID]
	return held
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []events.StatusChangedEvent

	PublishError error
}

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, event events.StatusChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.PublishError
}

func (m *MockPublisher) Close() error { return nil }

// Events returns a copy of the published events.
func (m *MockPublisher) Events() []events.StatusChangedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.StatusChangedEvent(nil), m.events...)
}
