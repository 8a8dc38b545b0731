package handlers

import (
	"net/http"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// bindRestaurantInput decodes the JSON body. Field rules are checked by the
// service so binding only rejects malformed JSON.
func bindRestaurantInput(c *gin.Context, span trace.Span) (*models.RestaurantInput, bool) {
	_, parseSpan := utils.TraceInputParsing(c.Request.Context(), "restaurant_body")
	defer parseSpan.End()

	var input models.RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		span.RecordError(err)
		respondError(c, http.StatusBadRequest, models.ErrorBody{
			Code:    models.CodeValidationError,
			Message: "Invalid restaurant data",
			Details: []models.FieldError{{Field: "body", Message: "Request body must be valid JSON"}},
		})
		return nil, false
	}
	return &input, true
}
