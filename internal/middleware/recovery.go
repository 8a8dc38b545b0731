package middleware

import (
	"fmt"
	"net/http"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic into a SERVER_ERROR response. Panic details are
// only sent to the client when exposeDetails is set.
func Recovery(exposeDetails bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		observability.Logger().Error("panic recovered",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)

		body := models.ErrorBody{
			Code:    models.CodeServerError,
			Message: "Internal server error",
		}
		if exposeDetails {
			body.Details = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: body})
	})
}
