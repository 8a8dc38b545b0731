package query

import (
	"github.com/forkful/restaurant-finder/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Query modes reported in metrics and logs
const (
	ModeFiltered = "filtered"
	ModeSearch   = "search"
)

// listFields are the fields returned for each restaurant of a listing
var listFields = []string{
	"name", "location", "cuisines", "rating", "imageUrl", "priceRange",
	"description", "phone", "address.city", "address.state", "isActive", "createdAt", "updatedAt",
}

// Plan is a fully resolved list query
type Plan struct {
	Params    Params
	Predicate Predicate
	Sort      SortPlan
	Skip      int64
	Limit     int64
}

// NewPlan resolves normalised parameters into a plan
func NewPlan(p Params) Plan {
	if p.Page < 1 {
		p.Page = models.DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = models.DefaultLimit
	}
	return Plan{
		Params:    p,
		Predicate: BuildPredicate(p),
		Sort:      NewSortPlan(p.Sort, p.SortOrder, p.HasSearch()),
		Skip:      models.PageOffset(p.Page, p.Limit),
		Limit:     int64(p.Limit),
	}
}

// Projection is the MongoDB projection of the listing fields, including
// the relevance score when searching
func (p Plan) Projection() bson.M {
	projection := bson.M{}
	for _, f := range listFields {
		projection[f] = 1
	}
	if p.Params.HasSearch() {
		projection[ScoreField] = bson.M{"$meta": "textScore"}
	}
	return projection
}

// Mode reports whether the plan runs a text search
func (p Plan) Mode() string {
	if p.Params.HasSearch() {
		return ModeSearch
	}
	return ModeFiltered
}

// Pagination builds the page metadata for total matches
func (p Plan) Pagination(total int64) models.Pagination {
	return models.NewPagination(p.Params.Page, p.Params.Limit, total)
}
