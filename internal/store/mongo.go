package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/forkful/restaurant-finder/internal/query"
	"github.com/forkful/restaurant-finder/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MongoStore is the MongoDB implementation of RestaurantStore
type MongoStore struct {
	collection *mongo.Collection
	timeout    time.Duration
	logger     *logging.SafeLogger
}

// NewMongoStore creates a store over the named collection of database
func NewMongoStore(database *mongo.Database, collection string, timeout time.Duration, logger *logging.SafeLogger) *MongoStore {
	if timeout <= 0 {
		timeout = utils.DefaultQueryTimeout
	}
	return &MongoStore{
		collection: database.Collection(collection),
		timeout:    timeout,
		logger:     logger.Named("mongo_store"),
	}
}

func recordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.DatabaseOperations.WithLabelValues(operation, status).Inc()
}

// Find returns one page of the plan's result set
func (s *MongoStore) Find(ctx context.Context, plan query.Plan) ([]models.Restaurant, error) {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "find", s.collection.Name())
	defer done()
	utils.AddSpanAttribute(span, "query.mode", plan.Mode())
	utils.AddSpanAttribute(span, "query.skip", plan.Skip)
	utils.AddSpanAttribute(span, "query.limit", plan.Limit)

	opts := options.Find().
		SetProjection(plan.Projection()).
		SetSort(plan.Sort.BSON()).
		SetSkip(plan.Skip).
		SetLimit(plan.Limit)

	restaurants := []models.Restaurant{}
	err := utils.FindAllWithTimeout(ctx, s.collection, plan.Predicate.BSON(), opts, &restaurants, s.timeout)
	recordOperation("find", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"query.mode": plan.Mode()})
		return nil, fmt.Errorf("failed to find restaurants: %w", err)
	}
	return restaurants, nil
}

// Count returns the number of restaurants matching predicate
func (s *MongoStore) Count(ctx context.Context, predicate query.Predicate) (int64, error) {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "count", s.collection.Name())
	defer done()

	count, err := utils.CountDocumentsWithTimeout(ctx, s.collection, predicate.BSON(), s.timeout)
	recordOperation("count", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return 0, fmt.Errorf("failed to count restaurants: %w", err)
	}
	return count, nil
}

// FindByID returns an active restaurant
func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "find_one", s.collection.Name())
	defer done()
	utils.AddSpanAttribute(span, "restaurant.id", id.Hex())

	var restaurant models.Restaurant
	err := utils.FindOneWithTimeout(ctx, s.collection, bson.M{"_id": id, "isActive": true}, &restaurant, s.timeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordOperation("find_one", nil)
		return nil, models.ErrRestaurantNotFound
	}
	recordOperation("find_one", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return &restaurant, nil
}

// Insert stores r
func (s *MongoStore) Insert(ctx context.Context, r *models.Restaurant) error {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "insert", s.collection.Name())
	defer done()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := utils.InsertOneWithTimeout(ctx, s.collection, r, s.timeout)
	if mongo.IsDuplicateKeyError(err) {
		recordOperation("insert", nil)
		return models.ErrDuplicateRestaurant
	}
	recordOperation("insert", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	return nil
}

// Replace overwrites an active restaurant
func (s *MongoStore) Replace(ctx context.Context, r *models.Restaurant) error {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "replace", s.collection.Name())
	defer done()
	utils.AddSpanAttribute(span, "restaurant.id", r.ID.Hex())

	result, err := utils.ReplaceOneWithTimeout(ctx, s.collection, bson.M{"_id": r.ID, "isActive": true}, r, s.timeout)
	if mongo.IsDuplicateKeyError(err) {
		recordOperation("replace", nil)
		return models.ErrDuplicateRestaurant
	}
	recordOperation("replace", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to replace restaurant: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrRestaurantNotFound
	}
	return nil
}

// Deactivate soft deletes a restaurant
func (s *MongoStore) Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "deactivate", s.collection.Name())
	defer done()
	utils.AddSpanAttribute(span, "restaurant.id", id.Hex())

	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": at}}
	result, err := utils.UpdateOneWithTimeout(ctx, s.collection, bson.M{"_id": id}, update, s.timeout)
	recordOperation("deactivate", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to deactivate restaurant: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrRestaurantNotFound
	}
	return nil
}

// DistinctActive returns the sorted distinct values of field over active restaurants
func (s *MongoStore) DistinctActive(ctx context.Context, field string) ([]string, error) {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "distinct", s.collection.Name())
	defer done()
	utils.AddSpanAttribute(span, "db.field", field)

	raw, err := utils.DistinctWithTimeout(ctx, s.collection, field, bson.M{"isActive": true}, s.timeout)
	recordOperation("distinct", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to get distinct %s: %w", field, err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok && str != "" {
			values = append(values, str)
		}
	}
	sort.Strings(values)
	return values, nil
}

// Stats aggregates active restaurants
func (s *MongoStore) Stats(ctx context.Context) (*models.RestaurantStats, error) {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, "aggregate", s.collection.Name())
	defer done()

	active := bson.D{{Key: "$match", Value: bson.M{"isActive": true}}}
	countDesc := bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}}
	groupBy := func(field string) bson.D {
		return bson.D{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}}
	}

	stats := &models.RestaurantStats{}
	var overview []models.StatsOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pipeline := mongo.Pipeline{
			active,
			{{Key: "$group", Value: bson.M{
				"_id":              nil,
				"totalRestaurants": bson.M{"$sum": 1},
				"averageRating":    bson.M{"$avg": "$rating"},
			}}},
			{{Key: "$project", Value: bson.M{
				"_id":              0,
				"totalRestaurants": 1,
				"averageRating":    bson.M{"$round": bson.A{"$averageRating", 2}},
			}}},
		}
		return utils.AggregateWithTimeout(gctx, s.collection, pipeline, &overview, s.timeout)
	})
	g.Go(func() error {
		pipeline := mongo.Pipeline{active, groupBy("location"), countDesc}
		return utils.AggregateWithTimeout(gctx, s.collection, pipeline, &stats.ByLocation, s.timeout)
	})
	g.Go(func() error {
		pipeline := mongo.Pipeline{active, {{Key: "$unwind", Value: "$cuisines"}}, groupBy("cuisines"), countDesc}
		return utils.AggregateWithTimeout(gctx, s.collection, pipeline, &stats.ByCuisine, s.timeout)
	})
	g.Go(func() error {
		pipeline := mongo.Pipeline{active, groupBy("priceRange"), {{Key: "$sort", Value: bson.M{"_id": 1}}}}
		return utils.AggregateWithTimeout(gctx, s.collection, pipeline, &stats.ByPriceRange, s.timeout)
	})

	err := g.Wait()
	recordOperation("aggregate", err)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to aggregate restaurant stats: %w", err)
	}

	if len(overview) > 0 {
		stats.Overview = overview[0]
		stats.Overview.AverageRating = math.Round(stats.Overview.AverageRating*100) / 100
	}
	ensureGroups(stats)
	return stats, nil
}

// ensureGroups replaces nil group slices so they encode as empty lists
func ensureGroups(stats *models.RestaurantStats) {
	if stats.ByLocation == nil {
		stats.ByLocation = []models.GroupCount{}
	}
	if stats.ByCuisine == nil {
		stats.ByCuisine = []models.GroupCount{}
	}
	if stats.ByPriceRange == nil {
		stats.ByPriceRange = []models.GroupCount{}
	}
}

// DeleteAll removes every restaurant
func (s *MongoStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := utils.DeleteManyWithTimeout(ctx, s.collection, bson.M{}, s.timeout)
	recordOperation("delete_many", err)
	if err != nil {
		return 0, fmt.Errorf("failed to clear restaurants: %w", err)
	}
	s.logger.Info("cleared restaurants collection", zap.Int64("deleted", result.DeletedCount))
	return result.DeletedCount, nil
}

// Ping checks that MongoDB is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.collection.Database().Client().Ping(ctx, readpref.Primary())
}
