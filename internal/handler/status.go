package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jouyai/midtrans-dik/internal/gateway"
	"github.com/jouyai/midtrans-dik/internal/service"
)

// StatusReconciler syncs an order with the gateway's transaction status.
type StatusReconciler interface {
	Reconcile(ctx context.Context, orderID string) (*service.ReconcileResult, error)
}

// StatusHandler handles HTTP requests for payment status checks.
type StatusHandler struct {
	reconciler StatusReconciler
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(reconciler StatusReconciler) *StatusHandler {
	return &StatusHandler{reconciler: reconciler}
}

// CheckStatusResponse is the HTTP response for a status check.
type CheckStatusResponse struct {
	NewStatus string `json:"new_status"`
}

// CheckStatus handles GET /api/check-status/:orderId
func (h *StatusHandler) CheckStatus(c *gin.Context) {
	orderID := c.Param("orderId")

	result, err := h.reconciler.Reconcile(c.Request.Context(), orderID)
	if err != nil {
		logFailure(c, "check status "+orderID, err)
		respondError(c, err, MsgCheckStatusFailed, statusMessage)
		return
	}

	respondJSON(c, http.StatusOK, CheckStatusResponse{NewStatus: string(result.Status)})
}

func statusMessage(e *gateway.Error) string {
	return e.StatusMessage
}
