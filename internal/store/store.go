// Package store holds the restaurant storage collaborators: a MongoDB
// implementation and an in-memory implementation with the same semantics.
package store

import (
	"context"
	"time"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields with distinct filter options
const (
	FieldLocation   = "location"
	FieldCuisines   = "cuisines"
	FieldPriceRange = "priceRange"
)

// RestaurantStore persists restaurants. Reads only ever return active
// restaurants.
type RestaurantStore interface {
	// Find returns one page of the plan's result set in plan order
	Find(ctx context.Context, plan query.Plan) ([]models.Restaurant, error)
	// Count returns the number of restaurants matching predicate
	Count(ctx context.Context, predicate query.Predicate) (int64, error)
	// FindByID returns an active restaurant or models.ErrRestaurantNotFound
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error)
	// Insert stores r and assigns its ID when unset
	Insert(ctx context.Context, r *models.Restaurant) error
	// Replace overwrites an active restaurant
	Replace(ctx context.Context, r *models.Restaurant) error
	// Deactivate soft deletes a restaurant. Deactivating an inactive
	// restaurant succeeds; an unknown ID is models.ErrRestaurantNotFound.
	Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// DistinctActive returns the sorted distinct values of field over active restaurants
	DistinctActive(ctx context.Context, field string) ([]string, error)
	// Stats aggregates active restaurants
	Stats(ctx context.Context) (*models.RestaurantStats, error)
	// DeleteAll physically removes every restaurant
	DeleteAll(ctx context.Context) (int64, error)
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}
