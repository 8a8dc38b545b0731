package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps restaurants in process memory. It evaluates plans with
// the in-memory rendering of their predicates and sort policy.
type MemoryStore struct {
	mu          sync.RWMutex
	restaurants map[primitive.ObjectID]*models.Restaurant
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{restaurants: map[primitive.ObjectID]*models.Restaurant{}}
}

// clone copies r so callers never share the stored value
func clone(r *models.Restaurant) models.Restaurant {
	c := *r
	c.Cuisines = append([]string(nil), r.Cuisines...)
	if r.Hours != nil {
		c.Hours = make(map[string]string, len(r.Hours))
		for k, v := range r.Hours {
			c.Hours[k] = v
		}
	}
	if r.Score != nil {
		score := *r.Score
		c.Score = &score
	}
	return c
}

// Find returns one page of the plan's result set
func (s *MemoryStore) Find(ctx context.Context, plan query.Plan) ([]models.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matches := make([]*models.Restaurant, 0)
	for _, r := range s.restaurants {
		if !plan.Predicate.Matches(r) {
			continue
		}
		c := clone(r)
		c.Score = nil
		if plan.Params.HasSearch() {
			score := query.TextScore(plan.Params.Search, r)
			c.Score = &score
		}
		matches = append(matches, &c)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return plan.Sort.Less(matches[i], matches[j]) })

	page := []models.Restaurant{}
	total := int64(len(matches))
	if plan.Skip < 0 || plan.Skip >= total {
		return page, nil
	}
	end := total
	if plan.Limit > 0 && plan.Limit < total-plan.Skip {
		end = plan.Skip + plan.Limit
	}
	for _, r := range matches[plan.Skip:end] {
		page = append(page, *r)
	}
	return page, nil
}

// Count returns the number of restaurants matching predicate
func (s *MemoryStore) Count(ctx context.Context, predicate query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, r := range s.restaurants {
		if predicate.Matches(r) {
			count++
		}
	}
	return count, nil
}

// FindByID returns an active restaurant
func (s *MemoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok || !r.IsActive {
		return nil, models.ErrRestaurantNotFound
	}
	c := clone(r)
	return &c, nil
}

// nameTaken reports whether another restaurant already uses name
func (s *MemoryStore) nameTaken(name string, except primitive.ObjectID) bool {
	for id, r := range s.restaurants {
		if id != except && r.Name == name {
			return true
		}
	}
	return false
}

// Insert stores r
func (s *MemoryStore) Insert(ctx context.Context, r *models.Restaurant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, exists := s.restaurants[r.ID]; exists {
		return fmt.Errorf("restaurant %s already exists", r.ID.Hex())
	}
	if s.nameTaken(r.Name, r.ID) {
		return models.ErrDuplicateRestaurant
	}
	c := clone(r)
	c.Score = nil
	s.restaurants[r.ID] = &c
	return nil
}

// Replace overwrites an active restaurant
func (s *MemoryStore) Replace(ctx context.Context, r *models.Restaurant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.restaurants[r.ID]
	if !ok || !current.IsActive {
		return models.ErrRestaurantNotFound
	}
	if s.nameTaken(r.Name, r.ID) {
		return models.ErrDuplicateRestaurant
	}
	c := clone(r)
	c.Score = nil
	s.restaurants[r.ID] = &c
	return nil
}

// Deactivate soft deletes a restaurant
func (s *MemoryStore) Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.restaurants[id]
	if !ok {
		return models.ErrRestaurantNotFound
	}
	r.IsActive = false
	r.UpdatedAt = at
	return nil
}

// DistinctActive returns the sorted distinct values of field over active restaurants
func (s *MemoryStore) DistinctActive(ctx context.Context, field string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	for _, r := range s.restaurants {
		if !r.IsActive {
			continue
		}
		for _, v := range fieldValues(field, r) {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func fieldValues(field string, r *models.Restaurant) []string {
	switch field {
	case FieldLocation:
		return []string{r.Location}
	case FieldCuisines:
		return r.Cuisines
	case FieldPriceRange:
		return []string{r.PriceRange}
	}
	return nil
}

// Stats aggregates active restaurants
func (s *MemoryStore) Stats(ctx context.Context) (*models.RestaurantStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := map[string]int64{}
	cuisines := map[string]int64{}
	prices := map[string]int64{}
	var total int64
	var ratingSum float64

	for _, r := range s.restaurants {
		if !r.IsActive {
			continue
		}
		total++
		ratingSum += r.Rating
		locations[r.Location]++
		for _, c := range r.Cuisines {
			cuisines[c]++
		}
		prices[r.PriceRange]++
	}

	stats := &models.RestaurantStats{
		Overview:     models.StatsOverview{TotalRestaurants: total},
		ByLocation:   groupsByCount(locations),
		ByCuisine:    groupsByCount(cuisines),
		ByPriceRange: groupsByID(prices),
	}
	if total > 0 {
		stats.Overview.AverageRating = math.Round(ratingSum/float64(total)*100) / 100
	}
	return stats, nil
}

func toGroups(counts map[string]int64) []models.GroupCount {
	groups := make([]models.GroupCount, 0, len(counts))
	for id, count := range counts {
		groups = append(groups, models.GroupCount{ID: id, Count: count})
	}
	return groups
}

func groupsByCount(counts map[string]int64) []models.GroupCount {
	groups := toGroups(counts)
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}

func groupsByID(counts map[string]int64) []models.GroupCount {
	groups := toGroups(counts)
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

// DeleteAll removes every restaurant
func (s *MemoryStore) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.restaurants))
	s.restaurants = map[primitive.ObjectID]*models.Restaurant{}
	return n, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
