package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/forkful/restaurant-finder/internal/config"
	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/services"
	"github.com/forkful/restaurant-finder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBroken = errors.New("store offline")

func listNames(t *testing.T, resp apiResponse) ([]string, models.Pagination) {
	t.Helper()
	var data struct {
		Restaurants []models.RestaurantSummary `json:"restaurants"`
		Pagination  models.Pagination          `json:"pagination"`
	}
	decodeData(t, resp, &data)
	names := make([]string, 0, len(data.Restaurants))
	for _, r := range data.Restaurants {
		names = append(names, r.Name)
	}
	return names, data.Pagination
}

func TestListRestaurants_LocationSortedByRating(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants?location=Downtown&sort=rating&sortOrder=desc&limit=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "2 restaurants found", resp.Message)

	names, pagination := listNames(t, resp)
	assert.Equal(t, []string{"Mama's", "Taqueria Sol"}, names)
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 2, Limit: 10}, pagination)
}

func TestListRestaurants_MinRating(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	_, resp := doRequest(t, router, http.MethodGet, "/api/restaurants?minRating=4.3", nil)

	names, _ := listNames(t, resp)
	assert.Equal(t, []string{"Mama's"}, names)
}

func TestListRestaurants_AppliedFilters(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	_, resp := doRequest(t, router, http.MethodGet, "/api/restaurants?cuisines=Italian,%20Mexican&priceRange=$,$$&unknown=1", nil)

	var data struct {
		AppliedFilters map[string]interface{} `json:"appliedFilters"`
	}
	decodeData(t, resp, &data)
	assert.Equal(t, []interface{}{"Italian", "Mexican"}, data.AppliedFilters["cuisines"])
	assert.Equal(t, []interface{}{"$", "$$"}, data.AppliedFilters["priceRange"])
	assert.Nil(t, data.AppliedFilters["location"])
	assert.Equal(t, "rating", data.AppliedFilters["sort"])
	assert.Equal(t, "desc", data.AppliedFilters["sortOrder"])
}

func TestListRestaurants_ValidationErrors(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name   string
		query  string
		fields []string
	}{
		{"page zero", "page=0", []string{"page"}},
		{"limit too large", "limit=51", []string{"limit"}},
		{"every offending field", "page=0&limit=51&sort=price&minRating=9", []string{"page", "limit", "sort", "minRating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants?"+tt.query, nil)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, models.CodeValidationError, resp.Error.Code)

			details, ok := resp.Error.Details.([]interface{})
			require.True(t, ok)
			var fields []string
			for _, d := range details {
				entry := d.(map[string]interface{})
				fields = append(fields, entry["field"].(string))
				assert.NotEmpty(t, entry["message"])
				assert.NotNil(t, entry["value"])
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestListRestaurants_PageBeyondLast(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants?page=9&limit=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	names, pagination := listNames(t, resp)
	assert.Empty(t, names)
	assert.Equal(t, int64(3), pagination.TotalCount)
	assert.False(t, pagination.HasNext)
	assert.True(t, strings.Contains(string(resp.Data), `"restaurants":[]`))
}

func TestListRestaurants_HugePageIsEmpty(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	for _, page := range []string{"461168601842738792", "9223372036854775807"} {
		t.Run(page, func(t *testing.T) {
			w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants?limit=20&page="+page, nil)

			require.Equal(t, http.StatusOK, w.Code)
			names, pagination := listNames(t, resp)
			assert.Empty(t, names)
			assert.Equal(t, int64(3), pagination.TotalCount)
			assert.Equal(t, 1, pagination.TotalPages)
			assert.False(t, pagination.HasNext)
			assert.True(t, pagination.HasPrev)
		})
	}
}

func TestGetRestaurant(t *testing.T) {
	router, _ := setupTestRouter(t)
	ids := seedRestaurants(t, router)

	t.Run("found", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants/"+ids["Mama's"], nil)
		require.Equal(t, http.StatusOK, w.Code)

		var data models.RestaurantData
		decodeData(t, resp, &data)
		assert.Equal(t, "Mama's", data.Restaurant.Name)
		assert.Equal(t, "123 Main St", data.Restaurant.Address.Street)
		assert.Equal(t, models.ClosedHours, data.Restaurant.Hours["monday"])
	})

	t.Run("malformed id", func(t *testing.T) {
		w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants/12345", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, models.CodeInvalidID, resp.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := primitive.NewObjectID().Hex()
		w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, models.CodeRestaurantNotFound, resp.Error.Code)
		assert.Equal(t, id, resp.Error.RestaurantID)
	})
}

func TestCreateRestaurant_Validation(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := restaurantBody("", "Downtown", 6, "$$$$$", "Klingon")
	body["phone"] = "555-1234"
	w, resp := doRequest(t, router, http.MethodPost, "/api/restaurants", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeValidationError, resp.Error.Code)
	assert.Equal(t, "Invalid restaurant data", resp.Error.Message)

	raw, ok := resp.Error.Details.([]interface{})
	require.True(t, ok)
	fields := map[string]string{}
	for _, d := range raw {
		entry := d.(map[string]interface{})
		fields[entry["field"].(string)] = entry["message"].(string)
	}
	assert.Equal(t, "Restaurant name is required", fields["name"])
	assert.Equal(t, "Rating cannot exceed 5", fields["rating"])
	assert.Equal(t, "Phone format must be: (123) 456-7890", fields["phone"])
	assert.Contains(t, fields, "priceRange")
	assert.Contains(t, fields, "cuisines[0]")
}

func TestCreateRestaurant_MalformedJSON(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, resp := doRequest(t, router, http.MethodPost, "/api/restaurants", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeValidationError, resp.Error.Code)
}

func TestCreateRestaurant_Duplicate(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	w, resp := doRequest(t, router, http.MethodPost, "/api/restaurants", restaurantBody("Mama's", "Uptown", 4, "$", "Italian"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeDuplicateField, resp.Error.Code)
}

func TestUpdateRestaurant(t *testing.T) {
	router, _ := setupTestRouter(t)
	ids := seedRestaurants(t, router)

	w, resp := doRequest(t, router, http.MethodPut, "/api/restaurants/"+ids["Mama's"],
		restaurantBody("Mama's", "Uptown", 4.84, "$$$", "Italian", "Greek"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data models.RestaurantData
	decodeData(t, resp, &data)
	assert.Equal(t, "Uptown", data.Restaurant.Location)
	assert.Equal(t, 4.8, data.Restaurant.Rating)
	assert.Equal(t, []string{"Italian", "Greek"}, data.Restaurant.Cuisines)

	w, resp = doRequest(t, router, http.MethodPut, "/api/restaurants/"+primitive.NewObjectID().Hex(),
		restaurantBody("Ghost", "Nowhere", 3, "$", "Thai"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.CodeRestaurantNotFound, resp.Error.Code)

	w, resp = doRequest(t, router, http.MethodPut, "/api/restaurants/"+ids["Mama's"],
		restaurantBody("Mama's", "", 3, "$", "Thai"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeValidationError, resp.Error.Code)
}

func TestDeleteRestaurant_ExcludesFromReads(t *testing.T) {
	router, _ := setupTestRouter(t)
	ids := seedRestaurants(t, router)
	id := ids["Mama's"]

	w, resp := doRequest(t, router, http.MethodDelete, "/api/restaurants/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted models.DeleteData
	decodeData(t, resp, &deleted)
	assert.Equal(t, id, deleted.RestaurantID)

	w, _ = doRequest(t, router, http.MethodGet, "/api/restaurants/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, resp = doRequest(t, router, http.MethodGet, "/api/restaurants?location=downtown", nil)
	names, _ := listNames(t, resp)
	assert.Equal(t, []string{"Taqueria Sol"}, names)

	_, resp = doRequest(t, router, http.MethodGet, "/api/restaurants/filters/options", nil)
	var options models.FilterOptions
	decodeData(t, resp, &options)
	assert.Equal(t, []string{"Chinese", "Mexican"}, options.Cuisines)

	w, _ = doRequest(t, router, http.MethodDelete, "/api/restaurants/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFilterOptions(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants/filters/options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var options models.FilterOptions
	decodeData(t, resp, &options)
	assert.Equal(t, []string{"Chinatown", "Downtown"}, options.Locations)
	assert.Equal(t, []string{"Chinese", "Italian", "Mexican"}, options.Cuisines)
	assert.Equal(t, []string{"$", "$$"}, options.PriceRanges)
}

func TestGetRestaurantStats(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedRestaurants(t, router)

	w, resp := doRequest(t, router, http.MethodGet, "/api/restaurants/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.RestaurantStats
	decodeData(t, resp, &stats)
	assert.Equal(t, int64(3), stats.Overview.TotalRestaurants)
	assert.Equal(t, 4.2, stats.Overview.AverageRating)
	assert.Equal(t, "Downtown", stats.ByLocation[0].ID)
}

func TestStoreFailures(t *testing.T) {
	router, s := setupTestRouter(t)
	services.InitRestaurantService(brokenStore{MemoryStore: s}, logging.Logger)

	tests := []struct {
		path string
		code string
	}{
		{"/api/restaurants/filters/options", models.CodeFilterOptionsError},
		{"/api/restaurants/stats", models.CodeStatsError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			config.AppConfig.Environment = "production"
			w, resp := doRequest(t, router, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Nil(t, resp.Error.Details)

			config.AppConfig.Environment = "development"
			_, resp = doRequest(t, router, http.MethodGet, tt.path, nil)
			assert.Contains(t, resp.Error.Details, "store offline")
		})
	}
}

var _ store.RestaurantStore = brokenStore{}
