package models

// Sort fields accepted by the list endpoint
const (
	SortByName      = "name"
	SortByRating    = "rating"
	SortByCreatedAt = "createdAt"
	SortByLocation  = "location"
)

// Sort orders
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// List defaults
const (
	DefaultPage      = 1
	DefaultLimit     = 20
	MaxLimit         = 50
	DefaultSort      = SortByRating
	DefaultSortOrder = SortDesc
)

// SortFields lists the fields a listing can be ordered by
var SortFields = []string{SortByName, SortByRating, SortByCreatedAt, SortByLocation}

// AppliedFilters echoes the normalised filters a list query ran with.
// Absent filters are null.
type AppliedFilters struct {
	Location   *string  `json:"location"`
	Cuisines   []string `json:"cuisines"`
	MinRating  *float64 `json:"minRating"`
	MaxRating  *float64 `json:"maxRating"`
	PriceRange []string `json:"priceRange"`
	Search     *string  `json:"search"`
	Sort       string   `json:"sort"`
	SortOrder  string   `json:"sortOrder"`
}

// RestaurantListResult is the payload of the list endpoint
type RestaurantListResult struct {
	Restaurants    []RestaurantSummary `json:"restaurants"`
	Pagination     Pagination          `json:"pagination"`
	AppliedFilters AppliedFilters      `json:"appliedFilters"`
}

// FilterOptions holds the distinct filter values present on active restaurants
type FilterOptions struct {
	Locations   []string `json:"locations"`
	Cuisines    []string `json:"cuisines"`
	PriceRanges []string `json:"priceRanges"`
}
