package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/forkful/restaurant-finder/internal/models"
)

// APIError is a structured error envelope returned by the API
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []models.FieldError
	// Detail holds free-text details, sent for server errors in development
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether the requested resource does not exist
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsValidation reports whether the request was rejected as invalid input
func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusBadRequest
}

// NetworkError is a transport failure: the API could not be reached or did
// not answer in time
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
