package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jouyai/midtrans-dik/internal/domain"
	"github.com/jouyai/midtrans-dik/internal/gateway"
)

// TransactionCreator opens checkout sessions.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, req domain.TransactionRequest) (*gateway.SnapResponse, error)
}

// TransactionHandler handles HTTP requests for checkout sessions.
type TransactionHandler struct {
	transactions TransactionCreator
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionCreator) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// CreateTransactionRequest is the HTTP request body for creating a transaction.
// GrossAmount is kept raw so strings and numbers reach the gateway unchanged.
type CreateTransactionRequest struct {
	OrderID     string          `json:"order_id"`
	GrossAmount json.RawMessage `json:"gross_amount"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
}

// CreateTransactionResponse is the HTTP response for a created transaction.
type CreateTransactionResponse struct {
	Token string `json:"token"`
}

// CreateTransaction handles POST /api/create-transaction
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[%s] create transaction: invalid request body: %v", requestID(c), err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: MsgCreateTransactionFailed})
		return
	}

	resp, err := h.transactions.CreateTransaction(c.Request.Context(), domain.TransactionRequest{
		OrderID:     req.OrderID,
		GrossAmount: req.GrossAmount,
		Name:        req.Name,
		Email:       req.Email,
	})
	if err != nil {
		logFailure(c, "create transaction", err)
		respondError(c, err, MsgCreateTransactionFailed, (*gateway.Error).FirstErrorMessage)
		return
	}

	respondJSON(c, http.StatusOK, CreateTransactionResponse{Token: resp.Token})
}

// logFailure logs the raw gateway response when there is one.
func logFailure(c *gin.Context, operation string, err error) {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		log.Printf("[%s] %s failed: %s", requestID(c), operation, gwErr.ResponseBody())
		return
	}
	log.Printf("[%s] %s failed: %v", requestID(c), operation, err)
}
