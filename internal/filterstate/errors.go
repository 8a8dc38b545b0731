package filterstate

import (
	"context"
	"errors"
	"net/http"

	"github.com/forkful/restaurant-finder/internal/apiclient"
	"github.com/forkful/restaurant-finder/internal/models"
)

// ErrorKind groups failures by how a user can recover from them
type ErrorKind string

// Error kinds
const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindServer     ErrorKind = "server"
	KindNetwork    ErrorKind = "network"
)

// User-facing messages for failures without a field-level explanation
const (
	MessageServer   = "Something went wrong on our side. Please try again."
	MessageNetwork  = "Unable to reach the server. Check your connection and try again."
	MessageTimeout  = "The request timed out. Please try again."
	MessageNotFound = "Restaurant not found."
)

// ErrorInfo is a failed fetch as the UI presents it
type ErrorInfo struct {
	Kind      ErrorKind
	Code      string
	Message   string
	Details   []models.FieldError
	Retryable bool
}

func (e *ErrorInfo) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// Classify turns a fetch error into an ErrorInfo
func Classify(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusNotFound:
			return &ErrorInfo{Kind: KindNotFound, Code: apiErr.Code, Message: MessageNotFound}
		case apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests:
			return &ErrorInfo{
				Kind:    KindValidation,
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			}
		default:
			return &ErrorInfo{Kind: KindServer, Code: apiErr.Code, Message: MessageServer, Retryable: true}
		}
	}

	var netErr *apiclient.NetworkError
	if errors.As(err, &netErr) {
		msg := MessageNetwork
		if netErr.Timeout() {
			msg = MessageTimeout
		}
		return &ErrorInfo{Kind: KindNetwork, Message: msg, Retryable: true}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ErrorInfo{Kind: KindNetwork, Message: MessageTimeout, Retryable: true}
	}
	if errors.Is(err, context.Canceled) {
		return &ErrorInfo{Kind: KindNetwork, Message: MessageNetwork, Retryable: true}
	}

	return &ErrorInfo{Kind: KindServer, Code: models.CodeServerError, Message: MessageServer, Retryable: true}
}
