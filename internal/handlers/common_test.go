package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forkful/restaurant-finder/internal/config"
	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/services"
	"github.com/forkful/restaurant-finder/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestRouter installs a restaurant service over an empty in-memory
// store and returns the full API router
func setupTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()

	originalService := services.RestaurantServiceInstance
	originalConfig := config.AppConfig
	originalRedis := config.Redis
	t.Cleanup(func() {
		services.RestaurantServiceInstance = originalService
		config.AppConfig = originalConfig
		config.Redis = originalRedis
	})

	config.AppConfig = &config.Config{Environment: "test", Version: "1.2.3"}
	config.Redis = nil

	s := store.NewMemoryStore()
	services.InitRestaurantService(s, logging.Logger)

	router := gin.New()
	RegisterRoutes(router)
	return router, s
}

type apiResponse struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Message string           `json:"message"`
	Error   models.ErrorBody `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func decodeData(t *testing.T, resp apiResponse, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func restaurantBody(name, location string, rating float64, price string, cuisines ...string) map[string]interface{} {
	return map[string]interface{}{
		"name":     name,
		"location": location,
		"cuisines": cuisines,
		"rating":   rating,
		"address": map[string]string{
			"street":  "123 Main St",
			"city":    "New York",
			"state":   "NY",
			"zipCode": "10001",
		},
		"phone":       "(555) 123-4567",
		"imageUrl":    "https://images.example.com/restaurant.jpg",
		"priceRange":  price,
		"description": name + " in " + location,
	}
}

// seedRestaurants creates the three-restaurant fixture through the API
func seedRestaurants(t *testing.T, router *gin.Engine) map[string]string {
	t.Helper()
	ids := map[string]string{}
	for _, body := range []map[string]interface{}{
		restaurantBody("Mama's", "Downtown", 4.5, "$$", "Italian"),
		restaurantBody("Golden Dragon", "Chinatown", 4.2, "$", "Chinese"),
		restaurantBody("Taqueria Sol", "Downtown", 3.9, "$", "Mexican"),
	} {
		w, resp := doRequest(t, router, http.MethodPost, "/api/restaurants", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			Restaurant models.Restaurant `json:"restaurant"`
		}
		decodeData(t, resp, &data)
		ids[data.Restaurant.Name] = data.Restaurant.ID.Hex()
	}
	return ids
}

// brokenStore fails every read
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) DistinctActive(context.Context, string) ([]string, error) {
	return nil, errBroken
}

func (brokenStore) Stats(context.Context) (*models.RestaurantStats, error) {
	return nil, errBroken
}

func (brokenStore) Ping(context.Context) error {
	return errBroken
}
