// Package apiclient is a typed HTTP client for the restaurant REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/utils"
	"github.com/forkful/restaurant-finder/internal/utils/httpclient"
	"go.uber.org/zap"
)

const maxResponseBytes = 10 << 20

// Client calls the restaurant API at a base URL such as http://localhost:8080/api
type Client struct {
	baseURL string
	pool    *httpclient.HTTPClientPool
	logger  *logging.SafeLogger
}

// Option configures a Client
type Option func(*Client)

// WithPool uses pool for outgoing requests
func WithPool(pool *httpclient.HTTPClientPool) Option {
	return func(c *Client) { c.pool = pool }
}

// WithLogger sets the client logger
func WithLogger(logger *logging.SafeLogger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = httpclient.NewHTTPClientPool(4, 15*time.Second)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// do sends a request and decodes the data field of a success envelope into out
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	ctx, span := utils.TraceExternalService(ctx, "restaurant_api", op)
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.pool.Get()
	defer c.pool.Put(client)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"http.url": target})
		c.logger.Warn("api request failed",
			zap.String("op", op),
			zap.String("url", target),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	utils.AddSpanAttribute(span, "http.status_code", resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Code: models.CodeServerError, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := toAPIError(resp.StatusCode, &env)
		utils.RecordErrorInSpan(span, apiErr, map[string]interface{}{"error.code": apiErr.Code})
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", op, err)
	}
	return nil
}

func toAPIError(status int, env *envelope) *APIError {
	apiErr := &APIError{Status: status, Code: models.CodeServerError, Message: http.StatusText(status)}
	if env.Error == nil {
		if env.Message != "" {
			apiErr.Message = env.Message
		}
		return apiErr
	}
	apiErr.Code = env.Error.Code
	apiErr.Message = env.Error.Message

	if len(env.Error.Details) > 0 {
		var details []models.FieldError
		if err := json.Unmarshal(env.Error.Details, &details); err == nil {
			apiErr.Details = details
		} else {
			var detail string
			if err := json.Unmarshal(env.Error.Details, &detail); err == nil {
				apiErr.Detail = detail
			}
		}
	}
	return apiErr
}

// ListRestaurants fetches one page of restaurants for params
func (c *Client) ListRestaurants(ctx context.Context, params url.Values) (*models.RestaurantListResult, error) {
	var result models.RestaurantListResult
	if err := c.do(ctx, "list_restaurants", http.MethodGet, "/restaurants", params, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRestaurant fetches one restaurant
func (c *Client) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	path, err := restaurantPath(id)
	if err != nil {
		return nil, err
	}
	var data models.RestaurantData
	if err := c.do(ctx, "get_restaurant", http.MethodGet, path, nil, nil, &data); err != nil {
		return nil, err
	}
	if data.Restaurant == nil {
		return nil, &APIError{Status: http.StatusNotFound, Code: models.CodeRestaurantNotFound, Message: "Restaurant not found"}
	}
	return data.Restaurant, nil
}

// restaurantPath is the resource path of one restaurant. A blank id would
// address the collection, so it is rejected without a request.
func restaurantPath(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", &APIError{Status: http.StatusBadRequest, Code: models.CodeInvalidID, Message: "Invalid restaurant ID format"}
	}
	return "/restaurants/" + url.PathEscape(id), nil
}

// GetFilterOptions fetches the available filter values
func (c *Client) GetFilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var options models.FilterOptions
	if err := c.do(ctx, "get_filter_options", http.MethodGet, "/restaurants/filters/options", nil, nil, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

// GetStats fetches restaurant statistics
func (c *Client) GetStats(ctx context.Context) (*models.RestaurantStats, error) {
	var stats models.RestaurantStats
	if err := c.do(ctx, "get_stats", http.MethodGet, "/restaurants/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateRestaurant creates a restaurant
func (c *Client) CreateRestaurant(ctx context.Context, input *models.RestaurantInput) (*models.Restaurant, error) {
	var data models.RestaurantData
	if err := c.do(ctx, "create_restaurant", http.MethodPost, "/restaurants", nil, input, &data); err != nil {
		return nil, err
	}
	return data.Restaurant, nil
}

// UpdateRestaurant replaces a restaurant's fields
func (c *Client) UpdateRestaurant(ctx context.Context, id string, input *models.RestaurantInput) (*models.Restaurant, error) {
	path, err := restaurantPath(id)
	if err != nil {
		return nil, err
	}
	var data models.RestaurantData
	if err := c.do(ctx, "update_restaurant", http.MethodPut, path, nil, input, &data); err != nil {
		return nil, err
	}
	return data.Restaurant, nil
}

// DeleteRestaurant soft deletes a restaurant
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	path, err := restaurantPath(id)
	if err != nil {
		return err
	}
	return c.do(ctx, "delete_restaurant", http.MethodDelete, path, nil, nil, nil)
}

// Health fetches the API health report
func (c *Client) Health(ctx context.Context) (*models.HealthData, error) {
	var health models.HealthData
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Close releases idle connections
func (c *Client) Close() {
	c.pool.Close()
}
