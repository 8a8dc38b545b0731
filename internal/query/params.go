// Package query turns list request parameters into a storage-independent
// plan: a composed predicate, a sort policy and a page window.
package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/forkful/restaurant-finder/internal/models"
)

var cuisineListFormat = regexp.MustCompile(`^[a-zA-Z,\s]+$`)

// Params is the normalised parameter set of a list query
type Params struct {
	Location    string
	Cuisines    []string
	MinRating   *float64
	MaxRating   *float64
	PriceRanges []string
	Search      string
	Page        int
	Limit       int
	Sort        string
	SortOrder   string
}

// DefaultParams returns the parameters of an unfiltered first page
func DefaultParams() Params {
	return Params{
		Page:      models.DefaultPage,
		Limit:     models.DefaultLimit,
		Sort:      models.DefaultSort,
		SortOrder: models.DefaultSortOrder,
	}
}

// HasSearch reports whether a free-text search was requested
func (p Params) HasSearch() bool {
	return p.Search != ""
}

// Applied echoes the parameters back to clients
func (p Params) Applied() models.AppliedFilters {
	applied := models.AppliedFilters{
		MinRating: p.MinRating,
		MaxRating: p.MaxRating,
		Sort:      p.Sort,
		SortOrder: p.SortOrder,
	}
	if p.Location != "" {
		location := p.Location
		applied.Location = &location
	}
	if len(p.Cuisines) > 0 {
		applied.Cuisines = append([]string(nil), p.Cuisines...)
	}
	if len(p.PriceRanges) > 0 {
		applied.PriceRange = append([]string(nil), p.PriceRanges...)
	}
	if p.Search != "" {
		search := p.Search
		applied.Search = &search
	}
	return applied
}

// paramParser accumulates field errors so every invalid parameter is reported
type paramParser struct {
	values  url.Values
	details []models.FieldError
}

func (pp *paramParser) get(key string) (string, bool) {
	raw := strings.TrimSpace(pp.values.Get(key))
	return raw, raw != ""
}

func (pp *paramParser) fail(field, raw, format string, args ...interface{}) {
	pp.details = append(pp.details, models.FieldError{
		Field:   field,
		Message: fmt.Sprintf("%q ", field) + fmt.Sprintf(format, args...),
		Value:   raw,
	})
}

func (pp *paramParser) text(key string, max int) string {
	raw, ok := pp.get(key)
	if !ok {
		return ""
	}
	if utf8.RuneCountInString(raw) > max {
		pp.fail(key, raw, "length must be less than or equal to %d characters long", max)
		return ""
	}
	return raw
}

func (pp *paramParser) rating(key string) *float64 {
	raw, ok := pp.get(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		pp.fail(key, raw, "must be a number")
		return nil
	}
	if v < 1 {
		pp.fail(key, raw, "must be greater than or equal to 1")
		return nil
	}
	if v > 5 {
		pp.fail(key, raw, "must be less than or equal to 5")
		return nil
	}
	return &v
}

func (pp *paramParser) integer(key string, def, min, max int) int {
	raw, ok := pp.get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			pp.fail(key, raw, "must be an integer")
		} else {
			pp.fail(key, raw, "must be a number")
		}
		return def
	}
	if v < min {
		pp.fail(key, raw, "must be greater than or equal to %d", min)
		return def
	}
	if max > 0 && v > max {
		pp.fail(key, raw, "must be less than or equal to %d", max)
		return def
	}
	return v
}

func (pp *paramParser) oneOf(key, def string, allowed []string) string {
	raw, ok := pp.get(key)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if raw == a {
			return raw
		}
	}
	pp.fail(key, raw, "must be one of [%s]", strings.Join(allowed, ", "))
	return def
}

func (pp *paramParser) cuisines() []string {
	raw, ok := pp.get("cuisines")
	if !ok {
		return nil
	}
	if !cuisineListFormat.MatchString(raw) {
		pp.fail("cuisines", raw, "with value %q fails to match the required pattern: %s", raw, cuisineListFormat.String())
		return nil
	}
	return splitList(raw)
}

func (pp *paramParser) priceRanges() []string {
	raw, ok := pp.get("priceRange")
	if !ok {
		return nil
	}
	tiers := splitList(raw)
	for _, tier := range tiers {
		if !models.IsPriceRange(tier) {
			pp.fail("priceRange", raw, "must be a comma-separated list of [%s]", strings.Join(models.PriceRanges, ", "))
			return nil
		}
	}
	return tiers
}

// splitList splits a comma-separated value into trimmed, distinct, non-empty items
func splitList(raw string) []string {
	var items []string
	seen := map[string]struct{}{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	return items
}

// ParseParams validates and normalises list query parameters. Empty values
// count as absent and unknown keys are ignored. The returned error is a
// *models.ValidationError naming every invalid parameter.
func ParseParams(values url.Values) (Params, error) {
	pp := &paramParser{values: values}

	params := Params{
		Location:    pp.text("location", 50),
		Cuisines:    pp.cuisines(),
		MinRating:   pp.rating("minRating"),
		MaxRating:   pp.rating("maxRating"),
		PriceRanges: pp.priceRanges(),
		Search:      pp.text("search", 100),
		Page:        pp.integer("page", models.DefaultPage, 1, 0),
		Limit:       pp.integer("limit", models.DefaultLimit, 1, models.MaxLimit),
		Sort:        pp.oneOf("sort", models.DefaultSort, models.SortFields),
		SortOrder:   pp.oneOf("sortOrder", models.DefaultSortOrder, []string{models.SortAsc, models.SortDesc}),
	}

	if len(pp.details) > 0 {
		return DefaultParams(), models.NewValidationError("Invalid query parameters", pp.details...)
	}
	return params, nil
}
