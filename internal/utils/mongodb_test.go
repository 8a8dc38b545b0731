package utils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupMongoDBUtilsTest connects to MONGODB_URI and returns a scratch collection
func setupMongoDBUtilsTest(t *testing.T) *mongo.Collection {
	t.Helper()
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		t.Skip("Skipping MongoDB integration tests: MONGODB_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB not available: %v", err)
	}

	collection := client.Database("test_restaurant_finder_utils").Collection("test_mongodb_utils")
	_ = collection.Drop(ctx)

	t.Cleanup(func() {
		_ = collection.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return collection
}

func TestMongoHelpers(t *testing.T) {
	collection := setupMongoDBUtilsTest(t)
	ctx := context.Background()
	timeout := 5 * time.Second

	_, err := InsertOneWithTimeout(ctx, collection, bson.M{"_id": "a", "name": "Alpha", "location": "Downtown"}, timeout)
	require.NoError(t, err)
	_, err = InsertOneWithTimeout(ctx, collection, bson.M{"_id": "b", "name": "Beta", "location": "Uptown"}, timeout)
	require.NoError(t, err)

	t.Run("FindOne", func(t *testing.T) {
		var doc bson.M
		require.NoError(t, FindOneWithTimeout(ctx, collection, bson.M{"_id": "a"}, &doc, timeout))
		assert.Equal(t, "Alpha", doc["name"])

		err := FindOneWithTimeout(ctx, collection, bson.M{"_id": "missing"}, &doc, timeout)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})

	t.Run("FindAll", func(t *testing.T) {
		var docs []bson.M
		opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}})
		require.NoError(t, FindAllWithTimeout(ctx, collection, bson.M{}, opts, &docs, timeout))
		require.Len(t, docs, 2)
		assert.Equal(t, "Beta", docs[0]["name"])
	})

	t.Run("Count", func(t *testing.T) {
		count, err := CountDocumentsWithTimeout(ctx, collection, bson.M{"location": "Downtown"}, timeout)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Distinct", func(t *testing.T) {
		values, err := DistinctWithTimeout(ctx, collection, "location", bson.M{}, timeout)
		require.NoError(t, err)
		assert.ElementsMatch(t, []interface{}{"Downtown", "Uptown"}, values)
	})

	t.Run("UpdateAndReplace", func(t *testing.T) {
		res, err := UpdateOneWithTimeout(ctx, collection, bson.M{"_id": "a"}, bson.M{"$set": bson.M{"location": "Midtown"}}, timeout)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)

		res, err = ReplaceOneWithTimeout(ctx, collection, bson.M{"_id": "b"}, bson.M{"name": "Gamma"}, timeout)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)
	})

	t.Run("Aggregate", func(t *testing.T) {
		var out []bson.M
		pipeline := mongo.Pipeline{{{Key: "$count", Value: "total"}}}
		require.NoError(t, AggregateWithTimeout(ctx, collection, pipeline, &out, timeout))
		require.Len(t, out, 1)
		assert.EqualValues(t, 2, out[0]["total"])
	})

	t.Run("DeleteMany", func(t *testing.T) {
		res, err := DeleteManyWithTimeout(ctx, collection, bson.M{}, timeout)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.DeletedCount)
	})
}
