package store

import (
	"context"
	"fmt"
	"time"

	"github.com/forkful/restaurant-finder/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// restaurantIndexes are the indexes the list, detail and write paths rely on
func restaurantIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().
				SetName(query.TextIndexName).
				SetWeights(bson.D{
					{Key: "name", Value: query.NameWeight},
					{Key: "description", Value: query.DescriptionWeight},
				}),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_1").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "location", Value: 1}, {Key: "rating", Value: -1}},
			Options: options.Index().SetName("location_1_rating_-1"),
		},
		{
			Keys:    bson.D{{Key: "cuisines", Value: 1}},
			Options: options.Index().SetName("cuisines_1"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("rating_-1"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_-1"),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}},
			Options: options.Index().SetName("isActive_1"),
		},
	}
}

// EnsureIndexes creates the restaurant indexes that do not exist yet
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.logger.Info("ensuring required indexes exist", zap.String("collection", s.collection.Name()))

	existing, err := s.indexNames(ctx)
	if err != nil {
		s.logger.Error("failed to list indexes", zap.Error(err))
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, model := range restaurantIndexes() {
		name := *model.Options.Name
		if existing[name] {
			s.logger.Debug("index already exists", zap.String("index", name))
			continue
		}

		if _, err := s.collection.Indexes().CreateOne(ctx, model); err != nil {
			// Another instance may have created it concurrently
			if mongo.IsDuplicateKeyError(err) {
				s.logger.Info("index already exists (created by another instance)", zap.String("index", name))
				continue
			}
			s.logger.Error("failed to create index", zap.String("index", name), zap.Error(err))
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
		s.logger.Info("created index", zap.String("index", name))
	}

	s.logger.Info("all required indexes verified")
	return nil
}

func (s *MongoStore) indexNames(ctx context.Context) (map[string]bool, error) {
	cursor, err := s.collection.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	names := map[string]bool{}
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok {
			names[name] = true
		}
	}
	return names, cursor.Err()
}
