package service

import (
	"context"
	"fmt"

	"github.com/jouyai/midtrans-dik/internal/domain"
	"github.com/jouyai/midtrans-dik/internal/gateway"
)

// SnapCreator is the interface for the gateway's hosted-checkout API.
type SnapCreator interface {
	CreateTransaction(ctx context.Context, req gateway.SnapRequest) (*gateway.SnapResponse, error)
}

// TransactionService opens checkout sessions at the payment gateway.
type TransactionService struct {
	snap SnapCreator
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(snap SnapCreator) *TransactionService {
	return &TransactionService{snap: snap}
}

// CreateTransaction forwards the order to the gateway as-is; field validation
// is left to the gateway.
func (s *TransactionService) CreateTransaction(ctx context.Context, req domain.TransactionRequest) (*gateway.SnapResponse, error) {
	resp, err := s.snap.CreateTransaction(ctx, gateway.SnapRequest{
		OrderID:     req.OrderID,
		GrossAmount: req.GrossAmount,
		FirstName:   req.Name,
		Email:       req.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction %s: %w", req.OrderID, err)
	}

	return resp, nil
}
