package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/midtrans/midtrans-go"
)

// Error is a failed payment gateway call. StatusCode is zero when the gateway
// could not be reached at all.
type Error struct {
	Operation     string
	StatusCode    int
	StatusMessage string
	ErrorMessages []string
	RawBody       []byte
	Err           error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("midtrans %s: %v", e.Operation, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("midtrans %s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	case e.StatusMessage != "":
		return fmt.Sprintf("midtrans %s: status %d: %s", e.Operation, e.StatusCode, e.StatusMessage)
	default:
		return fmt.Sprintf("midtrans %s: status %d", e.Operation, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status to surface to our own caller: the gateway's when it
// reported a usable one, 500 otherwise.
func (e *Error) HTTPStatus() int {
	if e.StatusCode >= 400 && e.StatusCode <= 599 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// FirstErrorMessage returns the first entry of the gateway's error_messages list.
func (e *Error) FirstErrorMessage() string {
	if len(e.ErrorMessages) == 0 {
		return ""
	}
	return e.ErrorMessages[0]
}

// ResponseBody returns the raw gateway response for logging.
func (e *Error) ResponseBody() string {
	if len(e.RawBody) == 0 {
		return e.Error()
	}
	return string(e.RawBody)
}

// errorBody holds the fields Midtrans uses to describe a failure.
type errorBody struct {
	StatusMessage string   `json:"status_message"`
	ErrorMessages []string `json:"error_messages"`
}

// fromSDKError converts a midtrans SDK error. Errors raised before any response
// arrived carry no status code.
func fromSDKError(operation string, e *midtrans.Error) *Error {
	gwErr := &Error{Operation: operation, Err: e}

	resp := e.GetRawApiResponse()
	if resp == nil {
		return gwErr
	}

	gwErr.StatusCode = e.GetStatusCode()
	gwErr.RawBody = resp.RawBody

	var body errorBody
	if err := json.Unmarshal(resp.RawBody, &body); err == nil {
		gwErr.StatusMessage = body.StatusMessage
		gwErr.ErrorMessages = body.ErrorMessages
	}

	return gwErr
}
