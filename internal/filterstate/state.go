// Package filterstate holds the client-side browsing state: the filter,
// sort and page selection, the last fetched page and how it should be
// displayed. State changes only through Reduce; Session drives the fetches.
package filterstate

import (
	"fmt"
	"strings"

	"github.com/forkful/restaurant-finder/internal/models"
)

// FilterKey names one field of a Filters selection
type FilterKey string

// Filter keys
const (
	FilterLocation   FilterKey = "location"
	FilterCuisines   FilterKey = "cuisines"
	FilterMinRating  FilterKey = "minRating"
	FilterPriceRange FilterKey = "priceRange"
	FilterSearch     FilterKey = "search"
)

// FilterKeys lists every filter key
var FilterKeys = []FilterKey{FilterLocation, FilterCuisines, FilterMinRating, FilterPriceRange, FilterSearch}

// ParseFilterKey resolves a filter key by name
func ParseFilterKey(name string) (FilterKey, error) {
	for _, k := range FilterKeys {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", name)
}

// Filters is the current filter selection. Zero values mean unconstrained.
type Filters struct {
	Location    string
	Cuisines    []string
	MinRating   *float64
	PriceRanges []string
	Search      string
}

// IsActive reports whether any filter constrains the listing
func (f Filters) IsActive() bool {
	return f.Location != "" ||
		len(f.Cuisines) > 0 ||
		f.MinRating != nil ||
		len(f.PriceRanges) > 0 ||
		f.Search != ""
}

// SortSpec is the requested ordering
type SortSpec struct {
	Field string
	Order string
}

// DefaultSort orders by rating, best first
func DefaultSort() SortSpec {
	return SortSpec{Field: models.DefaultSort, Order: models.DefaultSortOrder}
}

// DisplayState is what a renderer should show
type DisplayState int

// Display states, in priority order
const (
	DisplayLoading DisplayState = iota
	DisplayError
	DisplayEmpty
	DisplayPopulated
)

func (d DisplayState) String() string {
	switch d {
	case DisplayLoading:
		return "loading"
	case DisplayError:
		return "error"
	case DisplayEmpty:
		return "empty"
	case DisplayPopulated:
		return "populated"
	default:
		return fmt.Sprintf("DisplayState(%d)", int(d))
	}
}

// State is the complete browsing state
type State struct {
	Filters     Filters
	Sort        SortSpec
	Pagination  models.Pagination
	Restaurants []models.RestaurantSummary
	Loading     bool
	Error       *ErrorInfo

	// The detail view is tracked apart from the listing so a detail fetch
	// never hides or replaces the list's own loading and error state
	CurrentRestaurant *models.Restaurant
	DetailLoading     bool
	DetailError       *ErrorInfo

	FilterOptions models.FilterOptions

	// PendingSeq and DetailSeq stamp the latest list and detail fetches.
	// Results carrying any other stamp are superseded. PendingSeq is zero
	// while no list fetch is current.
	PendingSeq uint64
	DetailSeq  uint64
}

// Initial returns the state of a fresh session
func Initial() State {
	return State{
		Sort:        DefaultSort(),
		Pagination:  models.NewPagination(models.DefaultPage, models.DefaultLimit, 0),
		Restaurants: []models.RestaurantSummary{},
		FilterOptions: models.FilterOptions{
			Locations:   []string{},
			Cuisines:    []string{},
			PriceRanges: []string{},
		},
	}
}

// HasActiveFilters reports whether any filter is set
func (s State) HasActiveFilters() bool {
	return s.Filters.IsActive()
}

// IsEmpty reports whether a settled listing has no restaurants
func (s State) IsEmpty() bool {
	return len(s.Restaurants) == 0 && !s.Loading
}

// Display picks the single state to render: loading, then error, then
// empty, then populated
func (s State) Display() DisplayState {
	switch {
	case s.Loading:
		return DisplayLoading
	case s.Error != nil:
		return DisplayError
	case s.IsEmpty():
		return DisplayEmpty
	default:
		return DisplayPopulated
	}
}

// EmptyMessage is the text shown for an empty listing
func (s State) EmptyMessage() string {
	if s.HasActiveFilters() {
		return "No restaurants match your filters. Try adjusting or clearing them."
	}
	return "No restaurants available yet."
}
