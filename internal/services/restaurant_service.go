package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/observability"
	"github.com/forkful/restaurant-finder/internal/query"
	"github.com/forkful/restaurant-finder/internal/store"
	"github.com/forkful/restaurant-finder/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RestaurantService runs list plans and restaurant CRUD against a store
type RestaurantService struct {
	store  store.RestaurantStore
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(s store.RestaurantStore, logger *logging.SafeLogger) *RestaurantService {
	return &RestaurantService{
		store:  s,
		logger: logger.Named("restaurant_service"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RestaurantServiceInstance is the global restaurant service
var RestaurantServiceInstance *RestaurantService

// InitRestaurantService initializes the global restaurant service
func InitRestaurantService(s store.RestaurantStore, logger *logging.SafeLogger) {
	RestaurantServiceInstance = NewRestaurantService(s, logger)
	logger.Info("restaurant service initialized")
}

// ListRestaurants executes the plan for params. The page and the total
// count are read concurrently over the same predicate.
func (s *RestaurantService) ListRestaurants(ctx context.Context, params query.Params) (*models.RestaurantListResult, error) {
	plan := query.NewPlan(params)
	mode := plan.Mode()

	ctx, span := utils.TraceBusinessLogic(ctx, "list_restaurants")
	defer span.End()
	utils.AddSpanAttribute(span, "query.mode", mode)
	utils.AddSpanAttribute(span, "query.page", params.Page)
	utils.AddSpanAttribute(span, "query.limit", params.Limit)

	var restaurants []models.Restaurant
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		restaurants, err = s.store.Find(gctx, plan)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, plan.Predicate)
		return err
	})

	if err := g.Wait(); err != nil {
		observability.RestaurantQueries.WithLabelValues(mode, "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"query.mode": mode})
		s.logger.Error("failed to list restaurants", zap.String("mode", mode), zap.Error(err))
		return nil, models.NewQueryError(models.CodeQueryError, "list restaurants", err)
	}

	observability.RestaurantQueries.WithLabelValues(mode, "success").Inc()
	observability.QueryResultSize.Observe(float64(total))

	summaries := make([]models.RestaurantSummary, 0, len(restaurants))
	for i := range restaurants {
		summaries = append(summaries, restaurants[i].ToSummary())
	}

	return &models.RestaurantListResult{
		Restaurants:    summaries,
		Pagination:     plan.Pagination(total),
		AppliedFilters: params.Applied(),
	}, nil
}

// ListMessage is the message sent with a list result
func ListMessage(result *models.RestaurantListResult) string {
	return fmt.Sprintf("%d restaurants found", result.Pagination.TotalCount)
}

// GetRestaurant returns an active restaurant by its hex ID
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	objectID, err := utils.ParseRestaurantID(id)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.store.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, models.ErrRestaurantNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get restaurant", zap.String("restaurant_id", id), zap.Error(err))
		return nil, models.NewQueryError(models.CodeServerError, "get restaurant", err)
	}
	return restaurant, nil
}

func validateInput(ctx context.Context, input *models.RestaurantInput) error {
	_, span := utils.TraceInputValidation(ctx, "restaurant", "body")
	defer span.End()
	err := utils.ValidateRestaurantInput(input)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
	}
	return err
}

// CreateRestaurant validates input and stores a new active restaurant
func (s *RestaurantService) CreateRestaurant(ctx context.Context, input *models.RestaurantInput) (*models.Restaurant, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	restaurant := input.ToRestaurant(s.now())
	if err := s.store.Insert(ctx, restaurant); err != nil {
		if errors.Is(err, models.ErrDuplicateRestaurant) {
			return nil, err
		}
		s.logger.Error("failed to create restaurant", zap.String("name", restaurant.Name), zap.Error(err))
		return nil, models.NewQueryError(models.CodeCreateError, "create restaurant", err)
	}

	s.logger.Info("restaurant created",
		zap.String("restaurant_id", restaurant.ID.Hex()),
		zap.String("name", restaurant.Name),
		zap.String("phone", observability.MaskPhone(restaurant.Phone)))
	return restaurant, nil
}

// UpdateRestaurant validates input and overwrites an active restaurant
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id string, input *models.RestaurantInput) (*models.Restaurant, error) {
	objectID, err := utils.ParseRestaurantID(id)
	if err != nil {
		return nil, err
	}
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	restaurant, err := s.store.FindByID(ctx, objectID)
	if err == nil {
		input.ApplyTo(restaurant, s.now())
		err = s.store.Replace(ctx, restaurant)
	}
	if err != nil {
		if errors.Is(err, models.ErrRestaurantNotFound) || errors.Is(err, models.ErrDuplicateRestaurant) {
			return nil, err
		}
		s.logger.Error("failed to update restaurant", zap.String("restaurant_id", id), zap.Error(err))
		return nil, models.NewQueryError(models.CodeUpdateError, "update restaurant", err)
	}

	s.logger.Info("restaurant updated", zap.String("restaurant_id", id))
	return restaurant, nil
}

// DeleteRestaurant soft deletes a restaurant
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id string) error {
	objectID, err := utils.ParseRestaurantID(id)
	if err != nil {
		return err
	}

	if err := s.store.Deactivate(ctx, objectID, s.now()); err != nil {
		if errors.Is(err, models.ErrRestaurantNotFound) {
			return err
		}
		s.logger.Error("failed to delete restaurant", zap.String("restaurant_id", id), zap.Error(err))
		return models.NewQueryError(models.CodeDeleteError, "delete restaurant", err)
	}

	s.logger.Info("restaurant deactivated", zap.String("restaurant_id", id))
	return nil
}

// GetFilterOptions returns the distinct locations, cuisines and price
// ranges of active restaurants
func (s *RestaurantService) GetFilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	options := &models.FilterOptions{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		options.Locations, err = s.store.DistinctActive(gctx, store.FieldLocation)
		return err
	})
	g.Go(func() error {
		var err error
		options.Cuisines, err = s.store.DistinctActive(gctx, store.FieldCuisines)
		return err
	})
	g.Go(func() error {
		var err error
		options.PriceRanges, err = s.store.DistinctActive(gctx, store.FieldPriceRange)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to get filter options", zap.Error(err))
		return nil, models.NewQueryError(models.CodeFilterOptionsError, "get filter options", err)
	}
	return options, nil
}

// GetStats aggregates active restaurants
func (s *RestaurantService) GetStats(ctx context.Context) (*models.RestaurantStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to get restaurant stats", zap.Error(err))
		return nil, models.NewQueryError(models.CodeStatsError, "get stats", err)
	}
	return stats, nil
}

// Ping reports whether the store is reachable
func (s *RestaurantService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
