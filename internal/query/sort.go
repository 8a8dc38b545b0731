package query

import (
	"bytes"
	"strings"

	"github.com/forkful/restaurant-finder/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ScoreField is the name under which the relevance score is projected
const ScoreField = "textScore"

// SortPlan orders a result set. Relevance comes first when a search was
// requested, then the requested field, then the identifier so equal keys
// keep a stable order across repeated queries.
type SortPlan struct {
	ByRelevance bool
	Field       string
	Descending  bool
}

// NewSortPlan builds the sort policy for the requested field and order
func NewSortPlan(field, order string, search bool) SortPlan {
	if field == "" {
		field = models.DefaultSort
	}
	return SortPlan{
		ByRelevance: search,
		Field:       field,
		Descending:  order != models.SortAsc,
	}
}

// BSON renders the sort as an ordered MongoDB sort document
func (s SortPlan) BSON() bson.D {
	direction := 1
	if s.Descending {
		direction = -1
	}
	sort := bson.D{}
	if s.ByRelevance {
		sort = append(sort, bson.E{Key: ScoreField, Value: bson.M{"$meta": "textScore"}})
	}
	sort = append(sort, bson.E{Key: s.Field, Value: direction})
	if s.Field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

// Less reports whether a sorts before b
func (s SortPlan) Less(a, b *models.Restaurant) bool {
	if s.ByRelevance {
		sa, sb := score(a), score(b)
		if sa != sb {
			return sa > sb
		}
	}
	if c := compareField(s.Field, a, b); c != 0 {
		if s.Descending {
			return c > 0
		}
		return c < 0
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func score(r *models.Restaurant) float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

func compareField(field string, a, b *models.Restaurant) int {
	switch field {
	case models.SortByName:
		return strings.Compare(a.Name, b.Name)
	case models.SortByLocation:
		return strings.Compare(a.Location, b.Location)
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case models.SortByRating:
		switch {
		case a.Rating < b.Rating:
			return -1
		case a.Rating > b.Rating:
			return 1
		}
	}
	return 0
}
