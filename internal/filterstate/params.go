package filterstate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/forkful/restaurant-finder/internal/models"
)

// BuildParams encodes the selection as list query parameters. Empty
// filters and default page, limit and ordering are left out.
func BuildParams(s State) url.Values {
	params := url.Values{}

	f := s.Filters
	if f.Location != "" {
		params.Set("location", f.Location)
	}
	if len(f.Cuisines) > 0 {
		params.Set("cuisines", strings.Join(f.Cuisines, ","))
	}
	if f.MinRating != nil {
		params.Set("minRating", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	if len(f.PriceRanges) > 0 {
		params.Set("priceRange", strings.Join(f.PriceRanges, ","))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}

	if s.Pagination.CurrentPage > models.DefaultPage {
		params.Set("page", strconv.Itoa(s.Pagination.CurrentPage))
	}
	if s.Pagination.Limit > 0 && s.Pagination.Limit != models.DefaultLimit {
		params.Set("limit", strconv.Itoa(s.Pagination.Limit))
	}
	if s.Sort.Field != "" && s.Sort.Field != models.DefaultSort {
		params.Set("sort", s.Sort.Field)
	}
	if s.Sort.Order != "" && s.Sort.Order != models.DefaultSortOrder {
		params.Set("sortOrder", s.Sort.Order)
	}
	return params
}
