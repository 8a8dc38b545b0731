// Package seed loads the bundled restaurant data set into a store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/store"
	"github.com/forkful/restaurant-finder/internal/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed restaurants.yaml
var restaurantsYAML []byte

type seedFile struct {
	Restaurants []models.RestaurantInput `yaml:"restaurants"`
}

// Restaurants returns the bundled data set
func Restaurants() ([]models.RestaurantInput, error) {
	return Parse(restaurantsYAML)
}

// Parse decodes a YAML data set and validates every entry against the
// create schema
func Parse(data []byte) ([]models.RestaurantInput, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	if len(file.Restaurants) == 0 {
		return nil, fmt.Errorf("seed data has no restaurants")
	}

	for i := range file.Restaurants {
		if err := utils.ValidateRestaurantInput(&file.Restaurants[i]); err != nil {
			return nil, fmt.Errorf("seed restaurant %d (%q): %w", i, file.Restaurants[i].Name, err)
		}
	}
	return file.Restaurants, nil
}

// Summary describes a completed seed run
type Summary struct {
	Cleared   int64
	Inserted  int
	MinRating float64
	MaxRating float64
	Stats     *models.RestaurantStats
}

// Apply clears the store and inserts inputs as active restaurants
func Apply(ctx context.Context, s store.RestaurantStore, inputs []models.RestaurantInput, now time.Time, logger *logging.SafeLogger) (*Summary, error) {
	cleared, err := s.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("cleared existing restaurants", zap.Int64("deleted", cleared))

	summary := &Summary{Cleared: cleared}
	for i := range inputs {
		r := inputs[i].ToRestaurant(now)
		if err := s.Insert(ctx, r); err != nil {
			return nil, fmt.Errorf("failed to insert %q: %w", r.Name, err)
		}
		summary.Inserted++

		if summary.Inserted == 1 || r.Rating < summary.MinRating {
			summary.MinRating = r.Rating
		}
		if r.Rating > summary.MaxRating {
			summary.MaxRating = r.Rating
		}
	}
	logger.Info("seeded restaurants", zap.Int("count", summary.Inserted))

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise seeded restaurants: %w", err)
	}
	summary.Stats = stats

	logSummary(logger, summary)
	return summary, nil
}

func logSummary(logger *logging.SafeLogger, summary *Summary) {
	for _, g := range summary.Stats.ByLocation {
		logger.Info("restaurants by location", zap.String("location", g.ID), zap.Int64("count", g.Count))
	}
	for _, g := range summary.Stats.ByCuisine {
		logger.Info("restaurants by cuisine", zap.String("cuisine", g.ID), zap.Int64("count", g.Count))
	}
	logger.Info("rating statistics",
		zap.Float64("average", summary.Stats.Overview.AverageRating),
		zap.Float64("min", summary.MinRating),
		zap.Float64("max", summary.MaxRating))
}
