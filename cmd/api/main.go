package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkful/restaurant-finder/internal/config"
	"github.com/forkful/restaurant-finder/internal/handlers"
	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/middleware"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/forkful/restaurant-finder/internal/services"
	"github.com/forkful/restaurant-finder/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/forkful/restaurant-finder/docs"
)

// @title           Restaurant Recommendation API
// @version         1.0
// @description     Restaurant discovery API: filtered, sorted and paginated listings, filter options, statistics and restaurant management.

// @host      localhost:8080
// @BasePath  /api

// @tag.name restaurants
// @tag.description Restaurant listing, lookup and management

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	restaurantStore, err := initStore()
	if err != nil {
		logging.Logger.Fatal("failed to initialize restaurant store", zap.Error(err))
	}
	services.InitRestaurantService(restaurantStore, logging.Logger)

	config.InitRedis()
	if config.AppConfig.RateLimitEnabled {
		// A nil *redisclient.Client must not reach the interface
		var counter services.WindowCounter
		if config.Redis != nil {
			counter = config.Redis
		}
		services.InitRateLimiter(counter, config.AppConfig.RateLimitMax, config.AppConfig.RateLimitWindow, logging.Logger)
	}

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		middleware.Recovery(config.AppConfig.IsDevelopment()),
		middleware.RequestID(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.CORS(config.AppConfig.ClientURL),
	)

	// Metrics and docs sit outside the rate limit
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Use(middleware.RateLimit(services.RateLimiterInstance))
	handlers.RegisterRoutes(router)

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
			zap.String("store", config.AppConfig.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
	}

	config.CloseMongoDB(ctx)
	if config.Redis != nil {
		if err := config.Redis.Close(); err != nil {
			logging.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}

	logging.Logger.Info("server exited gracefully")
}

// initStore connects the configured restaurant store
func initStore() (store.RestaurantStore, error) {
	if config.AppConfig.StoreDriver == config.StoreDriverMemory {
		logging.Logger.Warn("using in-memory restaurant store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	if err := config.InitMongoDB(); err != nil {
		return nil, err
	}

	mongoStore := store.NewMongoStore(config.MongoDB, config.AppConfig.RestaurantCollection, config.AppConfig.QueryTimeout, logging.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return mongoStore, nil
}
