package handlers

import (
	"errors"
	"net/http"

	"github.com/forkful/restaurant-finder/internal/config"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/forkful/restaurant-finder/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func respondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, models.SuccessResponse{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, body models.ErrorBody) {
	c.JSON(status, models.ErrorResponse{Success: false, Error: body})
}

// exposeErrorDetails reports whether internal error text may reach clients
func exposeErrorDetails() bool {
	return config.AppConfig != nil && config.AppConfig.IsDevelopment()
}

// respondServiceError maps a service error onto its status code and envelope.
// fallback is the message of storage failures.
func respondServiceError(c *gin.Context, span trace.Span, err error, fallback string) {
	var vErr *models.ValidationError
	var qErr *models.QueryError

	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, models.ErrorBody{
			Code:    models.CodeValidationError,
			Message: vErr.Message,
			Details: vErr.Details,
		})
	case errors.Is(err, models.ErrInvalidRestaurantID):
		respondError(c, http.StatusBadRequest, models.ErrorBody{
			Code:    models.CodeInvalidID,
			Message: "Invalid restaurant ID format",
		})
	case errors.Is(err, models.ErrRestaurantNotFound):
		respondError(c, http.StatusNotFound, models.ErrorBody{
			Code:         models.CodeRestaurantNotFound,
			Message:      "Restaurant not found",
			RestaurantID: c.Param("id"),
		})
	case errors.Is(err, models.ErrDuplicateRestaurant):
		respondError(c, http.StatusBadRequest, models.ErrorBody{
			Code:    models.CodeDuplicateField,
			Message: "Duplicate field value entered",
			Details: []models.FieldError{{Field: "name", Message: err.Error()}},
		})
	default:
		code := models.CodeServerError
		if errors.As(err, &qErr) {
			code = qErr.Code
		}
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"error.code": code})
		observability.Logger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", code),
			zap.Error(err))

		body := models.ErrorBody{Code: code, Message: fallback}
		if exposeErrorDetails() {
			body.Details = err.Error()
		}
		respondError(c, http.StatusInternalServerError, body)
	}
}
