package filterstate

import (
	"strings"

	"github.com/forkful/restaurant-finder/internal/models"
)

// Reduce applies e to s and returns the new state. s is never modified.
// Filter, sort and page-size changes move back to page 1. Any selection
// change orphans the list fetch in flight, so its result is dropped.
func Reduce(s State, e Event) State {
	switch e.(type) {
	case SetFilter, ClearFilter, ClearAllFilters, SetPage, SetSort, SetLimit:
		s.PendingSeq = 0
	}

	switch ev := e.(type) {
	case SetFilter:
		s.Filters = s.Filters.with(ev.Key, ev.Value)
		s.Pagination = s.Pagination.WithPage(1)

	case ClearFilter:
		s.Filters = s.Filters.cleared(ev.Key)
		s.Pagination = s.Pagination.WithPage(1)

	case ClearAllFilters:
		s.Filters = Filters{}
		s.Pagination = s.Pagination.WithPage(1)

	case SetPage:
		page := ev.Page
		if page < 1 {
			page = 1
		}
		s.Pagination = s.Pagination.WithPage(page)

	case SetSort:
		s.Sort = normalizeSort(ev.Field, ev.Order, s.Sort)
		s.Pagination = s.Pagination.WithPage(1)

	case SetLimit:
		limit := ev.Limit
		if limit < 1 {
			limit = 1
		}
		if limit > models.MaxLimit {
			limit = models.MaxLimit
		}
		s.Pagination = models.NewPagination(1, limit, s.Pagination.TotalCount)

	case FetchStarted:
		s.PendingSeq = ev.Seq
		s.Loading = true
		s.Error = nil

	case FetchSucceeded:
		if ev.Seq == 0 || ev.Seq != s.PendingSeq || ev.Result == nil {
			return s
		}
		restaurants := ev.Result.Restaurants
		if restaurants == nil {
			restaurants = []models.RestaurantSummary{}
		}
		p := ev.Result.Pagination
		s.Restaurants = restaurants
		s.Pagination = models.NewPagination(p.CurrentPage, p.Limit, p.TotalCount)
		s.Loading = false
		s.Error = nil

	case FetchFailed:
		if ev.Seq == 0 || ev.Seq != s.PendingSeq {
			return s
		}
		s.Loading = false
		s.Error = ev.Err

	case DetailStarted:
		s.DetailSeq = ev.Seq
		s.DetailLoading = true
		s.DetailError = nil

	case DetailSucceeded:
		if ev.Seq != s.DetailSeq {
			return s
		}
		s.CurrentRestaurant = ev.Restaurant
		s.DetailLoading = false
		s.DetailError = nil

	case DetailFailed:
		if ev.Seq != s.DetailSeq {
			return s
		}
		s.CurrentRestaurant = nil
		s.DetailLoading = false
		s.DetailError = ev.Err

	case FilterOptionsLoaded:
		s.FilterOptions = models.FilterOptions{
			Locations:   nonNil(ev.Options.Locations),
			Cuisines:    nonNil(ev.Options.Cuisines),
			PriceRanges: nonNil(ev.Options.PriceRanges),
		}
	}
	return s
}

func (f Filters) with(key FilterKey, value interface{}) Filters {
	switch key {
	case FilterLocation:
		if v, ok := value.(string); ok {
			f.Location = strings.TrimSpace(v)
		}
	case FilterSearch:
		if v, ok := value.(string); ok {
			f.Search = strings.TrimSpace(v)
		}
	case FilterCuisines:
		if v, ok := value.([]string); ok {
			f.Cuisines = uniqueItems(v)
		}
	case FilterPriceRange:
		if v, ok := value.([]string); ok {
			f.PriceRanges = uniqueItems(v)
		}
	case FilterMinRating:
		switch v := value.(type) {
		case nil:
			f.MinRating = nil
		case float64:
			f.MinRating = &v
		case *float64:
			if v == nil {
				f.MinRating = nil
			} else {
				r := *v
				f.MinRating = &r
			}
		}
	}
	return f
}

func (f Filters) cleared(key FilterKey) Filters {
	switch key {
	case FilterLocation:
		f.Location = ""
	case FilterSearch:
		f.Search = ""
	case FilterCuisines:
		f.Cuisines = nil
	case FilterPriceRange:
		f.PriceRanges = nil
	case FilterMinRating:
		f.MinRating = nil
	}
	return f
}

func normalizeSort(field, order string, current SortSpec) SortSpec {
	next := current
	for _, f := range models.SortFields {
		if f == field {
			next.Field = field
			break
		}
	}
	switch order {
	case models.SortAsc, models.SortDesc:
		next.Order = order
	default:
		next.Order = models.SortDesc
	}
	return next
}

// uniqueItems returns a new slice of the trimmed, non-empty, distinct items
// in first-seen order
func uniqueItems(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
