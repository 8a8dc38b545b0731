package handlers

import (
	"net/http"
	"time"

	"github.com/forkful/restaurant-finder/internal/config"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/forkful/restaurant-finder/internal/services"
	"github.com/forkful/restaurant-finder/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var processStart = time.Now()

// HealthCheck godoc
// @Summary Health check
// @Description Reports API status, uptime and the reachability of the store and Redis
// @Tags health
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.HealthData} "All services are healthy"
// @Failure 503 {object} models.SuccessResponse{data=models.HealthData} "A service is unreachable"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	health := models.HealthData{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(processStart).Seconds(),
		Services:  map[string]string{},
	}
	if config.AppConfig != nil {
		health.Environment = config.AppConfig.Environment
		health.Version = config.AppConfig.Version
	}

	_, storeSpan := utils.TraceExternalService(ctx, "store", "ping")
	if err := services.RestaurantServiceInstance.Ping(ctx); err != nil {
		utils.RecordErrorInSpan(storeSpan, err, nil)
		observability.Logger().Warn("store health check failed", zap.Error(err))
		health.Status = "unhealthy"
		health.Services["database"] = "unhealthy"
	} else {
		health.Services["database"] = "healthy"
	}
	storeSpan.End()

	if config.Redis != nil {
		_, redisSpan := utils.TraceExternalService(ctx, "redis", "ping")
		if err := config.Redis.Ping(ctx).Err(); err != nil {
			utils.RecordErrorInSpan(redisSpan, err, nil)
			observability.Logger().Warn("redis health check failed", zap.Error(err))
			health.Status = "unhealthy"
			health.Services["redis"] = "unhealthy"
		} else {
			health.Services["redis"] = "healthy"
		}
		if stats := config.Redis.PoolStats(); stats != nil {
			redisSpan.SetAttributes(
				attribute.Int64("redis.pool.total_conns", int64(stats.TotalConns)),
				attribute.Int64("redis.pool.idle_conns", int64(stats.IdleConns)),
				attribute.Int64("redis.pool.timeouts", int64(stats.Timeouts)),
			)
		}
		redisSpan.End()
	}

	span.SetAttributes(attribute.String("health.status", health.Status))

	if health.Status != "OK" {
		c.JSON(http.StatusServiceUnavailable, models.SuccessResponse{
			Success: false,
			Data:    health,
			Message: "Server is unhealthy",
		})
		return
	}
	respondSuccess(c, http.StatusOK, health, "Server is healthy")
}

// APIRoot godoc
// @Summary API banner
// @Tags health
// @Produce json
// @Success 200 {object} models.APIInfo
// @Router / [get]
func APIRoot(c *gin.Context) {
	version := "1.0.0"
	if config.AppConfig != nil {
		version = config.AppConfig.Version
	}
	c.JSON(http.StatusOK, models.APIInfo{
		Success: true,
		Message: "Restaurant Recommendation API",
		Version: version,
	})
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, models.ErrorBody{
		Code:    models.CodeNotFound,
		Message: "Route not found",
	})
}
