package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/services"
	"github.com/gin-gonic/gin"
)

// RateLimit rejects clients that exceed the limiter's window with 429.
// A nil limiter disables the check.
func RateLimit(limiter *services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		decision := limiter.Allow(c.Request.Context(), c.ClientIP())
		reset := int(math.Ceil(decision.ResetAfter.Seconds()))
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(reset))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(reset))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: models.ErrorBody{
					Code:    models.CodeRateLimitExceeded,
					Message: "Too many requests, please try again later",
				},
			})
			return
		}
		c.Next()
	}
}
