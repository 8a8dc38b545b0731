package models

import "time"

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorBody is the error part of the error envelope
type ErrorBody struct {
	Code         string      `json:"code"`
	Message      string      `json:"message"`
	Details      interface{} `json:"details,omitempty"`
	RestaurantID string      `json:"restaurantId,omitempty"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// RestaurantData wraps a single restaurant
type RestaurantData struct {
	Restaurant *Restaurant `json:"restaurant"`
}

// DeleteData is returned after a soft delete
type DeleteData struct {
	RestaurantID string `json:"restaurantId"`
}

// HealthData is the payload of the health endpoint
type HealthData struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Uptime      float64           `json:"uptime"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
	Services    map[string]string `json:"services,omitempty"`
}

// APIInfo is the body of the root route
type APIInfo struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version"`
}
