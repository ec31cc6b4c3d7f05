package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jouyai/midtrans-dik/internal/gateway"
	"github.com/jouyai/midtrans-dik/internal/middleware"
	"github.com/jouyai/midtrans-dik/internal/repository"
	"github.com/jouyai/midtrans-dik/internal/service"
)

// Response messages shown to the storefront.
const (
	MsgCreateTransactionFailed = "Gagal membuat transaksi."
	MsgCheckStatusFailed       = "Gagal memeriksa status."
	MsgInvalidOrderID          = "Order ID tidak valid."
	MsgStoreUnavailable        = "Database pesanan tidak tersedia."
	MsgUpdateStatusFailed      = "Gagal memperbarui status pesanan."
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// gatewayMessage picks the caller-facing message out of a gateway error.
type gatewayMessage func(*gateway.Error) string

// respondError sends an error response. defaultMessage is used when the error
// carries no message meant for the caller.
func respondError(c *gin.Context, err error, defaultMessage string, pick gatewayMessage) {
	code, message := mapError(err, defaultMessage, pick)
	c.JSON(code, ErrorResponse{Message: message})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps gateway, service and repository errors to an HTTP status and message.
func mapError(err error, defaultMessage string, pick gatewayMessage) (int, string) {
	var gwErr *gateway.Error
	switch {
	case errors.As(err, &gwErr):
		message := pick(gwErr)
		if message == "" {
			message = defaultMessage
		}
		return gwErr.HTTPStatus(), message

	case errors.Is(err, service.ErrInvalidOrderID):
		return http.StatusBadRequest, MsgInvalidOrderID

	// A failed write is reported as such even when the store was unreachable.
	case errors.Is(err, service.ErrOrderUpdateFailed):
		return http.StatusInternalServerError, MsgUpdateStatusFailed

	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, MsgStoreUnavailable

	default:
		return http.StatusInternalServerError, defaultMessage
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}
