package query

import (
	"math"
	"testing"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewPlan(t *testing.T) {
	p := DefaultParams()
	p.Page = 3
	p.Limit = 10
	p.Location = "Downtown"

	plan := NewPlan(p)

	assert.Equal(t, int64(20), plan.Skip)
	assert.Equal(t, int64(10), plan.Limit)
	assert.Equal(t, ModeFiltered, plan.Mode())
	assert.False(t, plan.Sort.ByRelevance)
	assert.Contains(t, plan.Predicate.BSON(), "location")
}

func TestNewPlan_ClampsPageAndLimit(t *testing.T) {
	plan := NewPlan(Params{})
	assert.Equal(t, int64(0), plan.Skip)
	assert.Equal(t, int64(models.DefaultLimit), plan.Limit)
}

func TestNewPlan_HugePageSaturatesSkip(t *testing.T) {
	p := DefaultParams()
	p.Page = math.MaxInt64
	p.Limit = models.MaxLimit

	plan := NewPlan(p)
	assert.Equal(t, int64(math.MaxInt64), plan.Skip)
	assert.False(t, plan.Pagination(3).HasNext)
}

func TestPlan_SearchMode(t *testing.T) {
	p := DefaultParams()
	p.Search = "noodles"

	plan := NewPlan(p)

	assert.Equal(t, ModeSearch, plan.Mode())
	assert.True(t, plan.Sort.ByRelevance)
	assert.Equal(t, bson.M{"$meta": "textScore"}, plan.Projection()[ScoreField])
}

func TestPlan_Projection(t *testing.T) {
	projection := NewPlan(DefaultParams()).Projection()

	for _, field := range []string{"name", "location", "cuisines", "rating", "imageUrl", "priceRange",
		"description", "phone", "address.city", "address.state", "createdAt", "updatedAt"} {
		assert.Equal(t, 1, projection[field], field)
	}
	assert.NotContains(t, projection, ScoreField)
	assert.NotContains(t, projection, "hours")
	assert.NotContains(t, projection, "address.street")
}

func TestPlan_Pagination(t *testing.T) {
	p := DefaultParams()
	p.Page = 2
	p.Limit = 5

	page := NewPlan(p).Pagination(12)

	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}
