package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/jouyai/midtrans-dik/internal/domain"
	"github.com/jouyai/midtrans-dik/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
// Orders are stored as documents: the checkout snapshot lives in a JSONB column.
type OrderRepository struct {
	q     Querier
	table string
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB, table string) *OrderRepository {
	return &OrderRepository{q: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the orders table and its gateway order id index.
func (r *OrderRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id          TEXT PRIMARY KEY,
				snap_result JSONB NOT NULL DEFAULT '{}'::jsonb,
				status      TEXT NOT NULL DEFAULT 'Menunggu Konfirmasi',
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`, r.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ((snap_result->>'order_id'))`,
			pq.QuoteIdentifier("idx_"+unquoted(r.table)+"_snap_order_id"), r.table),
	}

	for _, stmt := range statements {
		if _, err := r.q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure orders schema: %w", err)
		}
	}
	return nil
}

// FindByGatewayOrderID retrieves the first order whose snapshot carries gatewayOrderID.
// Returns nil if no order matches.
func (r *OrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT id, COALESCE(snap_result->>'order_id', ''), status
		FROM %s WHERE snap_result->>'order_id' = $1
		ORDER BY created_at
		LIMIT 1
	`, r.table)

	var order domain.Order
	err := r.q.QueryRowContext(ctx, query, gatewayOrderID).Scan(
		&order.ID,
		&order.SnapResult.OrderID,
		&order.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err)
	}

	return &order, nil
}

// UpdateStatus overwrites the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2`, r.table)

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return translateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// translateError marks connection-level failures as repository.ErrStoreUnavailable.
func translateError(err error) error {
	var netErr *net.OpError
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, err)
	default:
		return err
	}
}

func unquoted(identifier string) string {
	if len(identifier) >= 2 && identifier[0] == '"' && identifier[len(identifier)-1] == '"' {
		return identifier[1 : len(identifier)-1]
	}
	return identifier
}
