package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/midtrans/midtrans-go/snap"
)

const operationCreateTransaction = "snap_create_transaction"

// SnapRequest is a hosted-checkout session request. Fields are forwarded as
// given; GrossAmount keeps the caller's raw JSON and is omitted when absent.
type SnapRequest struct {
	OrderID     string
	GrossAmount json.RawMessage
	FirstName   string
	Email       string
}

func (r SnapRequest) params() snap.RequestParamWithMap {
	details := map[string]interface{}{"order_id": r.OrderID}
	if len(r.GrossAmount) > 0 {
		details["gross_amount"] = r.GrossAmount
	}

	return snap.RequestParamWithMap{
		"transaction_details": details,
		"customer_details": map[string]interface{}{
			"first_name": r.FirstName,
			"email":      r.Email,
		},
	}
}

// SnapResponse is a created checkout session.
type SnapResponse struct {
	Token       string
	RedirectURL string
}

// SnapClient creates hosted-checkout sessions.
type SnapClient struct {
	c *client
}

// NewSnapClient creates a Snap client for the configured environment.
func NewSnapClient(cfg Config, opts ...Option) *SnapClient {
	return &SnapClient{c: newClient(cfg, opts)}
}

// CreateTransaction opens a checkout session and returns its token.
func (s *SnapClient) CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error) {
	start := time.Now()
	resp, err := s.create(ctx, req)
	observe(operationCreateTransaction, start, err)
	return resp, err
}

func (s *SnapClient) create(ctx context.Context, req SnapRequest) (*SnapResponse, error) {
	ctx, cancel := s.c.withTimeout(ctx)
	defer cancel()

	var sc snap.Client
	sc.New(s.c.serverKey, s.c.env)
	sc.HttpClient = s.c.sdkClient(ctx)

	params := req.params()
	res, merr := sc.CreateTransactionWithMap(&params)
	if merr != nil {
		return nil, fromSDKError(operationCreateTransaction, merr)
	}

	token, _ := res["token"].(string)
	if token == "" {
		return nil, &Error{Operation: operationCreateTransaction, Err: errors.New("response carries no token")}
	}
	redirectURL, _ := res["redirect_url"].(string)

	return &SnapResponse{Token: token, RedirectURL: redirectURL}, nil
}
