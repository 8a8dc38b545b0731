package filterstate

import (
	"testing"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

// onPage returns a state holding a 3-page listing positioned at page
func onPage(page int) State {
	s := Initial()
	s.Pagination = models.NewPagination(page, 10, 25)
	return s
}

func listResult(page, limit int, total int64, names ...string) *models.RestaurantListResult {
	restaurants := make([]models.RestaurantSummary, 0, len(names))
	for _, n := range names {
		restaurants = append(restaurants, models.RestaurantSummary{Name: n})
	}
	return &models.RestaurantListResult{
		Restaurants: restaurants,
		Pagination:  models.NewPagination(page, limit, total),
	}
}

func TestInitial(t *testing.T) {
	s := Initial()

	assert.Equal(t, SortSpec{Field: "rating", Order: "desc"}, s.Sort)
	assert.Equal(t, 1, s.Pagination.CurrentPage)
	assert.Equal(t, 20, s.Pagination.Limit)
	assert.Equal(t, 0, s.Pagination.TotalPages)
	assert.False(t, s.HasActiveFilters())
	assert.True(t, s.IsEmpty())
	assert.Equal(t, DisplayEmpty, s.Display())
	assert.NotNil(t, s.Restaurants)
}

func TestReduce_FilterChangesResetPage(t *testing.T) {
	events := []Event{
		SetFilter{Key: FilterLocation, Value: "Downtown"},
		SetFilter{Key: FilterCuisines, Value: []string{"Italian", "Mexican"}},
		SetFilter{Key: FilterMinRating, Value: 4.0},
		SetFilter{Key: FilterPriceRange, Value: []string{"$"}},
		SetFilter{Key: FilterSearch, Value: "pasta"},
		SetFilter{Key: FilterLocation, Value: 42},
		ClearFilter{Key: FilterLocation},
		ClearFilter{Key: FilterMinRating},
		ClearAllFilters{},
		SetSort{Field: "name", Order: "asc"},
		SetLimit{Limit: 5},
	}

	for _, e := range events {
		t.Run("", func(t *testing.T) {
			got := Reduce(onPage(3), e)
			assert.Equal(t, 1, got.Pagination.CurrentPage, "%T %+v", e, e)
			assert.False(t, got.Pagination.HasPrev)
		})
	}
}

func TestReduce_FilterResetHoldsAcrossSequences(t *testing.T) {
	mutations := []Event{
		SetFilter{Key: FilterLocation, Value: "Down"},
		ClearFilter{Key: FilterCuisines},
		SetSort{Field: "createdAt"},
		ClearAllFilters{},
		SetFilter{Key: FilterMinRating, Value: nil},
	}

	s := onPage(2)
	for i, e := range mutations {
		s = Reduce(s, SetPage{Page: i + 2})
		s = Reduce(s, e)
		require.Equal(t, 1, s.Pagination.CurrentPage, "after %T", e)
	}
}

func TestReduce_SetPageKeepsFilters(t *testing.T) {
	s := Reduce(Initial(), SetFilter{Key: FilterLocation, Value: "Downtown"})
	s = Reduce(s, SetFilter{Key: FilterCuisines, Value: []string{"Italian"}})
	s.Pagination = models.NewPagination(1, 10, 25)

	got := Reduce(s, SetPage{Page: 2})

	assert.Equal(t, 2, got.Pagination.CurrentPage)
	assert.True(t, got.Pagination.HasPrev)
	assert.True(t, got.Pagination.HasNext)
	assert.Equal(t, "Downtown", got.Filters.Location)
	assert.Equal(t, []string{"Italian"}, got.Filters.Cuisines)

	last := Reduce(got, SetPage{Page: 3})
	assert.False(t, last.Pagination.HasNext)

	clamped := Reduce(got, SetPage{Page: 0})
	assert.Equal(t, 1, clamped.Pagination.CurrentPage)
}

func TestReduce_SetFilterValues(t *testing.T) {
	s := Initial()

	s = Reduce(s, SetFilter{Key: FilterLocation, Value: "  Downtown "})
	assert.Equal(t, "Downtown", s.Filters.Location)

	s = Reduce(s, SetFilter{Key: FilterCuisines, Value: []string{"Italian", " Italian", "", "Thai"}})
	assert.Equal(t, []string{"Italian", "Thai"}, s.Filters.Cuisines)

	s = Reduce(s, SetFilter{Key: FilterMinRating, Value: 4.5})
	require.NotNil(t, s.Filters.MinRating)
	assert.Equal(t, 4.5, *s.Filters.MinRating)

	rating := 3.0
	s = Reduce(s, SetFilter{Key: FilterMinRating, Value: &rating})
	rating = 1
	assert.Equal(t, 3.0, *s.Filters.MinRating)

	s = Reduce(s, SetFilter{Key: FilterMinRating, Value: nil})
	assert.Nil(t, s.Filters.MinRating)

	s = Reduce(s, SetFilter{Key: FilterPriceRange, Value: []string{"$$", "$"}})
	assert.Equal(t, []string{"$$", "$"}, s.Filters.PriceRanges)

	s = Reduce(s, SetFilter{Key: FilterSearch, Value: "noodles"})
	assert.Equal(t, "noodles", s.Filters.Search)

	s = Reduce(s, SetFilter{Key: FilterCuisines, Value: "Italian"})
	assert.Equal(t, []string{"Italian", "Thai"}, s.Filters.Cuisines, "wrong value type is ignored")
}

func TestReduce_DoesNotAliasInput(t *testing.T) {
	cuisines := []string{"Italian"}
	before := Reduce(Initial(), SetFilter{Key: FilterCuisines, Value: cuisines})
	cuisines[0] = "Thai"

	after := Reduce(before, SetFilter{Key: FilterCuisines, Value: []string{"Mexican"}})

	assert.Equal(t, []string{"Italian"}, before.Filters.Cuisines)
	assert.Equal(t, []string{"Mexican"}, after.Filters.Cuisines)
}

func TestReduce_ClearFilter(t *testing.T) {
	s := Initial()
	s = Reduce(s, SetFilter{Key: FilterLocation, Value: "Downtown"})
	s = Reduce(s, SetFilter{Key: FilterCuisines, Value: []string{"Italian"}})
	s = Reduce(s, SetFilter{Key: FilterMinRating, Value: 4.0})
	s = Reduce(s, SetFilter{Key: FilterPriceRange, Value: []string{"$"}})
	s = Reduce(s, SetFilter{Key: FilterSearch, Value: "pizza"})
	require.True(t, s.HasActiveFilters())

	for _, key := range FilterKeys {
		s = Reduce(s, ClearFilter{Key: key})
	}

	assert.Equal(t, Filters{}, s.Filters)
	assert.False(t, s.HasActiveFilters())
}

func TestReduce_ClearAllFilters(t *testing.T) {
	s := Reduce(Initial(), SetFilter{Key: FilterLocation, Value: "Downtown"})
	s = Reduce(s, SetFilter{Key: FilterMinRating, Value: 4.0})
	s = Reduce(s, SetSort{Field: "name", Order: "asc"})

	got := Reduce(s, ClearAllFilters{})

	assert.False(t, got.HasActiveFilters())
	assert.Equal(t, SortSpec{Field: "name", Order: "asc"}, got.Sort, "sort is not a filter")
}

func TestReduce_SetSort(t *testing.T) {
	s := Reduce(Initial(), SetSort{Field: "name", Order: "asc"})
	assert.Equal(t, SortSpec{Field: "name", Order: "asc"}, s.Sort)

	s = Reduce(s, SetSort{Field: "createdAt"})
	assert.Equal(t, SortSpec{Field: "createdAt", Order: "desc"}, s.Sort)

	s = Reduce(s, SetSort{Field: "price", Order: "sideways"})
	assert.Equal(t, SortSpec{Field: "createdAt", Order: "desc"}, s.Sort)
}

func TestReduce_SetLimit(t *testing.T) {
	s := onPage(2)

	got := Reduce(s, SetLimit{Limit: 5})
	assert.Equal(t, 5, got.Pagination.Limit)
	assert.Equal(t, 5, got.Pagination.TotalPages)

	assert.Equal(t, models.MaxLimit, Reduce(s, SetLimit{Limit: 500}).Pagination.Limit)
	assert.Equal(t, 1, Reduce(s, SetLimit{Limit: 0}).Pagination.Limit)
}

func TestReduce_FetchLifecycle(t *testing.T) {
	s := Reduce(Initial(), FetchStarted{Seq: 1})
	assert.True(t, s.Loading)
	assert.Equal(t, DisplayLoading, s.Display())
	assert.False(t, s.IsEmpty())

	s = Reduce(s, FetchSucceeded{Seq: 1, Result: listResult(1, 2, 3, "A", "C")})
	assert.False(t, s.Loading)
	assert.Nil(t, s.Error)
	assert.Equal(t, DisplayPopulated, s.Display())
	require.Len(t, s.Restaurants, 2)
	assert.Equal(t, "A", s.Restaurants[0].Name)
	assert.Equal(t, models.Pagination{
		CurrentPage: 1, TotalPages: 2, TotalCount: 3, Limit: 2, HasNext: true, HasPrev: false,
	}, s.Pagination)
}

func TestReduce_FetchRecomputesPaginationFlags(t *testing.T) {
	result := listResult(2, 10, 15, "X")
	result.Pagination.HasNext = true
	result.Pagination.HasPrev = false

	s := Reduce(Reduce(Initial(), FetchStarted{Seq: 4}), FetchSucceeded{Seq: 4, Result: result})

	assert.False(t, s.Pagination.HasNext)
	assert.True(t, s.Pagination.HasPrev)
}

func TestReduce_FetchFailedKeepsPriorResults(t *testing.T) {
	s := Reduce(Initial(), FetchStarted{Seq: 1})
	s = Reduce(s, FetchSucceeded{Seq: 1, Result: listResult(1, 20, 1, "A")})

	s = Reduce(s, FetchStarted{Seq: 2})
	assert.Nil(t, s.Error)
	s = Reduce(s, FetchFailed{Seq: 2, Err: &ErrorInfo{Kind: KindNetwork, Message: MessageNetwork, Retryable: true}})

	assert.False(t, s.Loading)
	require.NotNil(t, s.Error)
	assert.Equal(t, KindNetwork, s.Error.Kind)
	assert.Equal(t, DisplayError, s.Display())
	require.Len(t, s.Restaurants, 1)
	assert.Equal(t, "A", s.Restaurants[0].Name)
	assert.Equal(t, int64(1), s.Pagination.TotalCount)

	s = Reduce(s, FetchStarted{Seq: 3})
	assert.Nil(t, s.Error, "a new fetch clears the previous error")
}

func TestReduce_DropsSupersededResults(t *testing.T) {
	s := Reduce(Initial(), FetchStarted{Seq: 1})
	s = Reduce(s, FetchStarted{Seq: 2})

	s = Reduce(s, FetchSucceeded{Seq: 2, Result: listResult(1, 20, 1, "new")})
	stale := Reduce(s, FetchSucceeded{Seq: 1, Result: listResult(1, 20, 1, "old")})
	assert.Equal(t, s, stale)

	staleFailure := Reduce(s, FetchFailed{Seq: 1, Err: &ErrorInfo{Kind: KindServer}})
	assert.Equal(t, s, staleFailure)
	assert.Equal(t, "new", staleFailure.Restaurants[0].Name)
}

func TestReduce_SelectionChangeOrphansFetchInFlight(t *testing.T) {
	changes := []Event{
		SetFilter{Key: FilterLocation, Value: "Downtown"},
		ClearFilter{Key: FilterSearch},
		ClearAllFilters{},
		SetPage{Page: 1},
		SetSort{Field: "name", Order: "asc"},
		SetLimit{Limit: 10},
	}

	for _, e := range changes {
		t.Run("", func(t *testing.T) {
			s := Reduce(onPage(2), FetchStarted{Seq: 7})
			s = Reduce(s, e)
			assert.Equal(t, uint64(0), s.PendingSeq)

			late := Reduce(s, FetchSucceeded{Seq: 7, Result: listResult(3, 20, 100, "late")})
			assert.Equal(t, s, late, "%T", e)
			assert.Equal(t, s, Reduce(s, FetchFailed{Seq: 7, Err: &ErrorInfo{Kind: KindServer}}))
			assert.Equal(t, s, Reduce(s, FetchSucceeded{Seq: 0, Result: listResult(3, 20, 100, "unstamped")}))
		})
	}
}

func TestReduce_NilRestaurantsBecomeEmpty(t *testing.T) {
	s := Reduce(Initial(), FetchStarted{Seq: 1})
	s = Reduce(s, FetchSucceeded{Seq: 1, Result: &models.RestaurantListResult{
		Pagination: models.NewPagination(1, 20, 0),
	}})

	assert.NotNil(t, s.Restaurants)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, DisplayEmpty, s.Display())
}

func TestReduce_DetailLifecycle(t *testing.T) {
	s := Reduce(Initial(), FetchStarted{Seq: 1})
	s = Reduce(s, DetailStarted{Seq: 2})
	assert.True(t, s.DetailLoading)
	assert.True(t, s.Loading, "list loading is tracked separately")

	s = Reduce(s, DetailSucceeded{Seq: 2, Restaurant: &models.Restaurant{Name: "Golden Dragon"}})
	assert.False(t, s.DetailLoading)
	require.NotNil(t, s.CurrentRestaurant)
	assert.Equal(t, "Golden Dragon", s.CurrentRestaurant.Name)
	assert.True(t, s.Loading)

	s = Reduce(s, DetailStarted{Seq: 3})
	s = Reduce(s, DetailFailed{Seq: 3, Err: &ErrorInfo{Kind: KindNotFound, Message: MessageNotFound}})
	assert.Nil(t, s.CurrentRestaurant)
	require.NotNil(t, s.DetailError)
	assert.Equal(t, KindNotFound, s.DetailError.Kind)
	assert.Nil(t, s.Error)

	stale := Reduce(s, DetailSucceeded{Seq: 2, Restaurant: &models.Restaurant{Name: "old"}})
	assert.Nil(t, stale.CurrentRestaurant)
}

func TestReduce_FilterOptionsLoaded(t *testing.T) {
	s := Reduce(Initial(), FilterOptionsLoaded{Options: models.FilterOptions{
		Locations: []string{"Chinatown", "Downtown"},
	}})

	assert.Equal(t, []string{"Chinatown", "Downtown"}, s.FilterOptions.Locations)
	assert.Equal(t, []string{}, s.FilterOptions.Cuisines)
	assert.Equal(t, []string{}, s.FilterOptions.PriceRanges)
}

func TestDisplayPriority(t *testing.T) {
	s := Initial()
	s.Restaurants = []models.RestaurantSummary{{Name: "A"}}
	s.Error = &ErrorInfo{Kind: KindServer}
	s.Loading = true
	assert.Equal(t, DisplayLoading, s.Display())

	s.Loading = false
	assert.Equal(t, DisplayError, s.Display())

	s.Error = nil
	assert.Equal(t, DisplayPopulated, s.Display())

	s.Restaurants = []models.RestaurantSummary{}
	assert.Equal(t, DisplayEmpty, s.Display())
	assert.Equal(t, "empty", s.Display().String())
}

func TestEmptyMessage(t *testing.T) {
	s := Initial()
	assert.Equal(t, "No restaurants available yet.", s.EmptyMessage())

	s = Reduce(s, SetFilter{Key: FilterLocation, Value: "Nowhere"})
	assert.Contains(t, s.EmptyMessage(), "match your filters")
}

func TestParseFilterKey(t *testing.T) {
	key, err := ParseFilterKey("minrating")
	require.NoError(t, err)
	assert.Equal(t, FilterMinRating, key)

	_, err = ParseFilterKey("color")
	assert.Error(t, err)
}
