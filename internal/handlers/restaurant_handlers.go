package handlers

import (
	"net/http"
	"time"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/forkful/restaurant-finder/internal/query"
	"github.com/forkful/restaurant-finder/internal/services"
	"github.com/forkful/restaurant-finder/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ListRestaurants godoc
// @Summary List restaurants
// @Description Filters, sorts and paginates active restaurants. With a search term results are ranked by relevance first.
// @Tags restaurants
// @Produce json
// @Param location query string false "Case-insensitive location substring" maxlength(50)
// @Param cuisines query string false "Comma-separated cuisines (any match)"
// @Param minRating query number false "Minimum rating" minimum(1) maximum(5)
// @Param maxRating query number false "Maximum rating" minimum(1) maximum(5)
// @Param priceRange query string false "Comma-separated price tiers ($ to $$$$)"
// @Param search query string false "Free text search over name and description" maxlength(100)
// @Param page query int false "Page number (default 1)" minimum(1)
// @Param limit query int false "Page size (default 20)" minimum(1) maximum(50)
// @Param sort query string false "Sort field" Enums(name, rating, createdAt, location)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} models.SuccessResponse{data=models.RestaurantListResult}
// @Failure 400 {object} models.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants [get]
func ListRestaurants(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListRestaurants")
	defer span.End()

	logger := observability.Logger()

	_, parseSpan := utils.TraceInputParsing(ctx, "list_query")
	params, err := query.ParseParams(c.Request.URL.Query())
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		logger.Debug("invalid list parameters", zap.Error(err))
		respondServiceError(c, span, err, "Invalid query parameters")
		return
	}
	parseSpan.End()

	span.SetAttributes(
		attribute.Int("query.page", params.Page),
		attribute.Int("query.limit", params.Limit),
		attribute.String("query.sort", params.Sort),
		attribute.Bool("query.search", params.HasSearch()),
	)

	result, err := services.RestaurantServiceInstance.ListRestaurants(ctx, params)
	if err != nil {
		respondServiceError(c, span, err, "Error retrieving restaurants")
		return
	}

	_, responseSpan := utils.TraceResponseSerialization(ctx, "restaurant_list")
	respondSuccess(c, http.StatusOK, result, services.ListMessage(result))
	responseSpan.End()

	logger.Debug("ListRestaurants completed",
		zap.Int64("total_count", result.Pagination.TotalCount),
		zap.Int("returned", len(result.Restaurants)),
		zap.String("search", observability.TruncateForLog(params.Search, 64)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// GetRestaurant godoc
// @Summary Get a restaurant
// @Description Returns one active restaurant by ID
// @Tags restaurants
// @Produce json
// @Param id path string true "Restaurant ID (24 hex characters)"
// @Success 200 {object} models.SuccessResponse{data=models.RestaurantData}
// @Failure 400 {object} models.ErrorResponse "Malformed ID"
// @Failure 404 {object} models.ErrorResponse "Restaurant not found or inactive"
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants/{id} [get]
func GetRestaurant(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetRestaurant")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("restaurant.id", id))

	restaurant, err := services.RestaurantServiceInstance.GetRestaurant(ctx, id)
	if err != nil {
		respondServiceError(c, span, err, "Error retrieving restaurant")
		return
	}

	respondSuccess(c, http.StatusOK, models.RestaurantData{Restaurant: restaurant}, "Restaurant retrieved successfully")
}

// CreateRestaurant godoc
// @Summary Create a restaurant
// @Description Validates and stores a new active restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Param restaurant body models.RestaurantInput true "Restaurant"
// @Success 201 {object} models.SuccessResponse{data=models.RestaurantData}
// @Failure 400 {object} models.ErrorResponse "Invalid restaurant data or duplicate name"
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants [post]
func CreateRestaurant(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "CreateRestaurant")
	defer span.End()

	input, ok := bindRestaurantInput(c, span)
	if !ok {
		return
	}

	restaurant, err := services.RestaurantServiceInstance.CreateRestaurant(ctx, input)
	if err != nil {
		respondServiceError(c, span, err, "Error creating restaurant")
		return
	}

	span.SetAttributes(attribute.String("restaurant.id", restaurant.ID.Hex()))
	respondSuccess(c, http.StatusCreated, models.RestaurantData{Restaurant: restaurant}, "Restaurant created successfully")
}

// UpdateRestaurant godoc
// @Summary Update a restaurant
// @Description Replaces the fields of an active restaurant. The body is validated like a create.
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID (24 hex characters)"
// @Param restaurant body models.RestaurantInput true "Restaurant"
// @Success 200 {object} models.SuccessResponse{data=models.RestaurantData}
// @Failure 400 {object} models.ErrorResponse "Invalid ID, invalid data or duplicate name"
// @Failure 404 {object} models.ErrorResponse "Restaurant not found or inactive"
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants/{id} [put]
func UpdateRestaurant(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateRestaurant")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("restaurant.id", id))

	input, ok := bindRestaurantInput(c, span)
	if !ok {
		return
	}

	restaurant, err := services.RestaurantServiceInstance.UpdateRestaurant(ctx, id, input)
	if err != nil {
		respondServiceError(c, span, err, "Error updating restaurant")
		return
	}

	respondSuccess(c, http.StatusOK, models.RestaurantData{Restaurant: restaurant}, "Restaurant updated successfully")
}

// DeleteRestaurant godoc
// @Summary Delete a restaurant
// @Description Soft deletes a restaurant. It disappears from every read endpoint.
// @Tags restaurants
// @Produce json
// @Param id path string true "Restaurant ID (24 hex characters)"
// @Success 200 {object} models.SuccessResponse{data=models.DeleteData}
// @Failure 400 {object} models.ErrorResponse "Malformed ID"
// @Failure 404 {object} models.ErrorResponse "Restaurant not found"
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants/{id} [delete]
func DeleteRestaurant(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DeleteRestaurant")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("restaurant.id", id))

	if err := services.RestaurantServiceInstance.DeleteRestaurant(ctx, id); err != nil {
		respondServiceError(c, span, err, "Error deleting restaurant")
		return
	}

	respondSuccess(c, http.StatusOK, models.DeleteData{RestaurantID: id}, "Restaurant deleted successfully")
}

// GetFilterOptions godoc
// @Summary Filter options
// @Description Distinct locations, cuisines and price ranges of active restaurants, each sorted ascending
// @Tags restaurants
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.FilterOptions}
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants/filters/options [get]
func GetFilterOptions(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetFilterOptions")
	defer span.End()

	options, err := services.RestaurantServiceInstance.GetFilterOptions(ctx)
	if err != nil {
		respondServiceError(c, span, err, "Error retrieving filter options")
		return
	}

	respondSuccess(c, http.StatusOK, options, "Filter options retrieved successfully")
}

// GetRestaurantStats godoc
// @Summary Restaurant statistics
// @Description Totals and average rating of active restaurants, grouped by location, cuisine and price range
// @Tags restaurants
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.RestaurantStats}
// @Failure 500 {object} models.ErrorResponse "Storage failure"
// @Router /restaurants/stats [get]
func GetRestaurantStats(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetRestaurantStats")
	defer span.End()

	stats, err := services.RestaurantServiceInstance.GetStats(ctx)
	if err != nil {
		respondServiceError(c, span, err, "Error retrieving statistics")
		return
	}

	respondSuccess(c, http.StatusOK, stats, "Restaurant statistics retrieved successfully")
}
