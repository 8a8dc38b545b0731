package models

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes carried in the error envelope
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidID          = "INVALID_ID"
	CodeRestaurantNotFound = "RESTAURANT_NOT_FOUND"
	CodeDuplicateField     = "DUPLICATE_FIELD"
	CodeQueryError         = "QUERY_ERROR"
	CodeCreateError        = "CREATE_ERROR"
	CodeUpdateError        = "UPDATE_ERROR"
	CodeDeleteError        = "DELETE_ERROR"
	CodeFilterOptionsError = "FILTER_OPTIONS_ERROR"
	CodeStatsError         = "STATS_ERROR"
	CodeServerError        = "SERVER_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
)

// Error constants for restaurant operations
var (
	ErrInvalidRestaurantID = errors.New("invalid restaurant ID format")
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrDuplicateRestaurant = errors.New("a restaurant with this name already exists")
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationError lists every invalid field of a request
type ValidationError struct {
	Message string
	Details []FieldError
}

// NewValidationError creates a ValidationError with the given details
func NewValidationError(message string, details ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(fields, ", "))
}

// HasField reports whether field is among the invalid fields
func (e *ValidationError) HasField(field string) bool {
	for _, d := range e.Details {
		if d.Field == field {
			return true
		}
	}
	return false
}

// QueryError wraps a storage failure with the error code reported to clients
type QueryError struct {
	Code string
	Op   string
	Err  error
}

// NewQueryError wraps err as a failure of op reported with code
func NewQueryError(code, op string, err error) *QueryError {
	return &QueryError{Code: code, Op: op, Err: err}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
