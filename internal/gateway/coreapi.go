package gateway

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/midtrans/midtrans-go/coreapi"

	"github.com/jouyai/midtrans-dik/internal/domain"
)

const operationTransactionStatus = "core_transaction_status"

// expiredStatusCode is returned in the body for expired transactions and is
// a valid status, not a failure.
const expiredStatusCode = 407

// TransactionStatusResponse is the gateway's view of a transaction.
type TransactionStatusResponse struct {
	StatusMessage     string
	TransactionID     string
	OrderID           string
	GrossAmount       string
	Currency          string
	PaymentType       string
	TransactionTime   string
	TransactionStatus domain.TransactionStatus
	FraudStatus       string
	SettlementTime    string
}

// CoreClient queries existing transactions.
type CoreClient struct {
	c *client
}

// NewCoreClient creates a Core API client for the configured environment.
func NewCoreClient(cfg Config, opts ...Option) *CoreClient {
	return &CoreClient{c: newClient(cfg, opts)}
}

// TransactionStatus fetches the current status of the transaction for orderID.
func (c *CoreClient) TransactionStatus(ctx context.Context, orderID string) (*TransactionStatusResponse, error) {
	start := time.Now()
	resp, err := c.check(ctx, orderID)
	observe(operationTransactionStatus, start, err)
	return resp, err
}

func (c *CoreClient) check(ctx context.Context, orderID string) (*TransactionStatusResponse, error) {
	ctx, cancel := c.c.withTimeout(ctx)
	defer cancel()

	var cc coreapi.Client
	cc.New(c.c.serverKey, c.c.env)
	cc.HttpClient = c.c.sdkClient(ctx)

	res, merr := cc.CheckTransaction(url.PathEscape(orderID))
	if merr != nil {
		return nil, fromSDKError(operationTransactionStatus, merr)
	}

	// The SDK only rejects body status codes from 401 up.
	if code, _ := strconv.Atoi(res.StatusCode); code >= 400 && code != expiredStatusCode {
		return nil, &Error{
			Operation:     operationTransactionStatus,
			StatusCode:    code,
			StatusMessage: res.StatusMessage,
		}
	}

	return &TransactionStatusResponse{
		StatusMessage:     res.StatusMessage,
		TransactionID:     res.TransactionID,
		OrderID:           res.OrderID,
		GrossAmount:       res.GrossAmount,
		Currency:          res.Currency,
		PaymentType:       res.PaymentType,
		TransactionTime:   res.TransactionTime,
		TransactionStatus: domain.TransactionStatus(res.TransactionStatus),
		FraudStatus:       res.FraudStatus,
		SettlementTime:    res.SettlementTime,
	}, nil
}
