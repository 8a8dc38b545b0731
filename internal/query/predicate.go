package query

import (
	"regexp"
	"strings"

	"github.com/forkful/restaurant-finder/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Predicate is a boolean condition on a restaurant with a MongoDB rendering
// and an in-memory evaluation that agree with each other
type Predicate interface {
	BSON() bson.M
	Matches(r *models.Restaurant) bool
}

type activePredicate struct{}

// ByActive matches restaurants that have not been soft deleted
func ByActive() Predicate { return activePredicate{} }

func (activePredicate) BSON() bson.M { return bson.M{"isActive": true} }

func (activePredicate) Matches(r *models.Restaurant) bool { return r.IsActive }

type locationPredicate struct {
	needle string
}

// ByLocation matches a case-insensitive substring of the location.
// The input is matched literally, never as a pattern.
func ByLocation(location string) Predicate {
	return locationPredicate{needle: location}
}

func (p locationPredicate) BSON() bson.M {
	return bson.M{"location": primitive.Regex{Pattern: regexp.QuoteMeta(p.needle), Options: "i"}}
}

func (p locationPredicate) Matches(r *models.Restaurant) bool {
	return strings.Contains(strings.ToLower(r.Location), strings.ToLower(p.needle))
}

type cuisinesPredicate struct {
	cuisines []string
	set      map[string]struct{}
}

// ByCuisines matches restaurants serving at least one of the cuisines
func ByCuisines(cuisines []string) Predicate {
	set := make(map[string]struct{}, len(cuisines))
	for _, c := range cuisines {
		set[c] = struct{}{}
	}
	return cuisinesPredicate{cuisines: append([]string(nil), cuisines...), set: set}
}

func (p cuisinesPredicate) BSON() bson.M {
	return bson.M{"cuisines": bson.M{"$in": p.cuisines}}
}

func (p cuisinesPredicate) Matches(r *models.Restaurant) bool {
	return r.HasCuisine(p.set)
}

type ratingPredicate struct {
	min, max *float64
}

// ByRating bounds the rating inclusively; a nil bound is open
func ByRating(min, max *float64) Predicate {
	return ratingPredicate{min: min, max: max}
}

func (p ratingPredicate) BSON() bson.M {
	bounds := bson.M{}
	if p.min != nil {
		bounds["$gte"] = *p.min
	}
	if p.max != nil {
		bounds["$lte"] = *p.max
	}
	return bson.M{"rating": bounds}
}

func (p ratingPredicate) Matches(r *models.Restaurant) bool {
	if p.min != nil && r.Rating < *p.min {
		return false
	}
	if p.max != nil && r.Rating > *p.max {
		return false
	}
	return true
}

type pricePredicate struct {
	tiers []string
}

// ByPrice matches restaurants whose price tier is one of tiers
func ByPrice(tiers []string) Predicate {
	return pricePredicate{tiers: append([]string(nil), tiers...)}
}

func (p pricePredicate) BSON() bson.M {
	return bson.M{"priceRange": bson.M{"$in": p.tiers}}
}

func (p pricePredicate) Matches(r *models.Restaurant) bool {
	for _, tier := range p.tiers {
		if r.PriceRange == tier {
			return true
		}
	}
	return false
}

type textPredicate struct {
	search string
}

// ByText matches restaurants relevant to a free-text search over the
// weighted name and description text index
func ByText(search string) Predicate {
	return textPredicate{search: search}
}

func (p textPredicate) BSON() bson.M {
	return bson.M{"$text": bson.M{"$search": p.search}}
}

func (p textPredicate) Matches(r *models.Restaurant) bool {
	return TextScore(p.search, r) > 0
}

type andPredicate struct {
	parts []Predicate
}

// And matches when every part matches
func And(parts ...Predicate) Predicate {
	flat := make([]Predicate, 0, len(parts))
	for _, part := range parts {
		if nested, ok := part.(andPredicate); ok {
			flat = append(flat, nested.parts...)
			continue
		}
		if part != nil {
			flat = append(flat, part)
		}
	}
	return andPredicate{parts: flat}
}

// BSON merges the parts into one document, falling back to $and when two
// parts constrain the same key
func (p andPredicate) BSON() bson.M {
	merged := bson.M{}
	for _, part := range p.parts {
		for k, v := range part.BSON() {
			if _, clash := merged[k]; clash {
				return p.explicitAnd()
			}
			merged[k] = v
		}
	}
	return merged
}

func (p andPredicate) explicitAnd() bson.M {
	clauses := make(bson.A, 0, len(p.parts))
	for _, part := range p.parts {
		clauses = append(clauses, part.BSON())
	}
	return bson.M{"$and": clauses}
}

func (p andPredicate) Matches(r *models.Restaurant) bool {
	for _, part := range p.parts {
		if !part.Matches(r) {
			return false
		}
	}
	return true
}

// BuildPredicate composes the predicate of a list query. The soft-delete
// filter is always part of it.
func BuildPredicate(p Params) Predicate {
	parts := []Predicate{ByActive()}
	if p.Location != "" {
		parts = append(parts, ByLocation(p.Location))
	}
	if len(p.Cuisines) > 0 {
		parts = append(parts, ByCuisines(p.Cuisines))
	}
	if p.MinRating != nil || p.MaxRating != nil {
		parts = append(parts, ByRating(p.MinRating, p.MaxRating))
	}
	if len(p.PriceRanges) > 0 {
		parts = append(parts, ByPrice(p.PriceRanges))
	}
	if p.Search != "" {
		parts = append(parts, ByText(p.Search))
	}
	return And(parts...)
}
