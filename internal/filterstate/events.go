package filterstate

import "github.com/forkful/restaurant-finder/internal/models"

// Event is a state transition applied by Reduce
type Event interface {
	isEvent()
}

// SetFilter replaces one filter. Value is a string for location and search,
// a []string for cuisines and priceRange, and a float64, *float64 or nil
// for minRating. Values of any other type leave the filter unchanged.
type SetFilter struct {
	Key   FilterKey
	Value interface{}
}

// ClearFilter resets one filter to its empty value
type ClearFilter struct {
	Key FilterKey
}

// ClearAllFilters resets the whole selection
type ClearAllFilters struct{}

// SetPage moves to page Page without touching the filters
type SetPage struct {
	Page int
}

// SetSort replaces the ordering. An empty Order means descending.
type SetSort struct {
	Field string
	Order string
}

// SetLimit changes the page size
type SetLimit struct {
	Limit int
}

// FetchStarted marks list fetch Seq as in flight
type FetchStarted struct {
	Seq uint64
}

// FetchSucceeded delivers the page of list fetch Seq
type FetchSucceeded struct {
	Seq    uint64
	Result *models.RestaurantListResult
}

// FetchFailed reports the failure of list fetch Seq
type FetchFailed struct {
	Seq uint64
	Err *ErrorInfo
}

// DetailStarted marks detail fetch Seq as in flight
type DetailStarted struct {
	Seq uint64
}

// DetailSucceeded delivers the restaurant of detail fetch Seq
type DetailSucceeded struct {
	Seq        uint64
	Restaurant *models.Restaurant
}

// DetailFailed reports the failure of detail fetch Seq
type DetailFailed struct {
	Seq uint64
	Err *ErrorInfo
}

// FilterOptionsLoaded stores the available filter values
type FilterOptionsLoaded struct {
	Options models.FilterOptions
}

func (SetFilter) isEvent()           {}
func (ClearFilter) isEvent()         {}
func (ClearAllFilters) isEvent()     {}
func (SetPage) isEvent()             {}
func (SetSort) isEvent()             {}
func (SetLimit) isEvent()            {}
func (FetchStarted) isEvent()        {}
func (FetchSucceeded) isEvent()      {}
func (FetchFailed) isEvent()         {}
func (DetailStarted) isEvent()       {}
func (DetailSucceeded) isEvent()     {}
func (DetailFailed) isEvent()        {}
func (FilterOptionsLoaded) isEvent() {}
