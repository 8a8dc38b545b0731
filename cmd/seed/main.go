package main

import (
	"context"
	"fmt"
	"time"

	"github.com/forkful/restaurant-finder/internal/config"
	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/seed"
	"github.com/forkful/restaurant-finder/internal/store"
	"go.uber.org/zap"
)

func main() {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	if config.AppConfig.StoreDriver != config.StoreDriverMongo {
		logging.Logger.Fatal("seeding requires STORE_DRIVER=mongo", zap.String("store", config.AppConfig.StoreDriver))
	}

	inputs, err := seed.Restaurants()
	if err != nil {
		logging.Logger.Fatal("invalid seed data", zap.Error(err))
	}

	if err := config.InitMongoDB(); err != nil {
		logging.Logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	defer config.CloseMongoDB(context.Background())

	mongoStore := store.NewMongoStore(config.MongoDB, config.AppConfig.RestaurantCollection, config.AppConfig.QueryTimeout, logging.Logger)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	summary, err := seed.Apply(ctx, mongoStore, inputs, time.Now().UTC(), logging.Logger)
	if err != nil {
		logging.Logger.Fatal("seeding failed", zap.Error(err))
	}

	logging.Logger.Info("database seeding completed",
		zap.Int64("cleared", summary.Cleared),
		zap.Int("inserted", summary.Inserted))
}
