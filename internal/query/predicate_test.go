package query

import (
	"testing"
	"time"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func restaurant(name, location string, cuisines []string, rating float64, price string) *models.Restaurant {
	return &models.Restaurant{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Location:   location,
		Cuisines:   cuisines,
		Rating:     rating,
		PriceRange: price,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestByActive(t *testing.T) {
	r := restaurant("A", "Downtown", []string{"Italian"}, 4, "$")
	assert.True(t, ByActive().Matches(r))
	r.IsActive = false
	assert.False(t, ByActive().Matches(r))
	assert.Equal(t, bson.M{"isActive": true}, ByActive().BSON())
}

func TestByLocation(t *testing.T) {
	r := restaurant("A", "Downtown Manhattan", nil, 4, "$")

	assert.True(t, ByLocation("downtown").Matches(r))
	assert.True(t, ByLocation("TOWN MAN").Matches(r))
	assert.False(t, ByLocation("Brooklyn").Matches(r))
}

func TestByLocation_QuotesPattern(t *testing.T) {
	p := ByLocation("Down.*(town")
	regex, ok := p.BSON()["location"].(primitive.Regex)
	require.True(t, ok)

	assert.Equal(t, `Down\.\*\(town`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
	assert.False(t, p.Matches(restaurant("A", "Downtown", nil, 4, "$")))
	assert.True(t, p.Matches(restaurant("A", "Old Down.*(town", nil, 4, "$")))
}

func TestByCuisines(t *testing.T) {
	p := ByCuisines([]string{"Italian", "Mexican"})

	assert.True(t, p.Matches(restaurant("A", "", []string{"Italian"}, 4, "$")))
	assert.True(t, p.Matches(restaurant("B", "", []string{"Thai", "Mexican"}, 4, "$")))
	assert.False(t, p.Matches(restaurant("C", "", []string{"Chinese"}, 4, "$")))
	assert.False(t, p.Matches(restaurant("D", "", nil, 4, "$")))
	assert.Equal(t, bson.M{"cuisines": bson.M{"$in": []string{"Italian", "Mexican"}}}, p.BSON())
}

func TestByRating(t *testing.T) {
	tests := []struct {
		name   string
		min    *float64
		max    *float64
		rating float64
		want   bool
	}{
		{"min inclusive", floatPtr(4.5), nil, 4.5, true},
		{"below min", floatPtr(4.5), nil, 4.4, false},
		{"max inclusive", nil, floatPtr(4.0), 4.0, true},
		{"above max", nil, floatPtr(4.0), 4.1, false},
		{"within range", floatPtr(3), floatPtr(4), 3.5, true},
		{"inverted range", floatPtr(4.5), floatPtr(2), 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := restaurant("A", "", nil, tt.rating, "$")
			assert.Equal(t, tt.want, ByRating(tt.min, tt.max).Matches(r))
		})
	}
}

func TestByRating_BSON(t *testing.T) {
	assert.Equal(t, bson.M{"rating": bson.M{"$gte": 3.0, "$lte": 4.0}}, ByRating(floatPtr(3), floatPtr(4)).BSON())
	assert.Equal(t, bson.M{"rating": bson.M{"$gte": 3.0}}, ByRating(floatPtr(3), nil).BSON())
}

func TestByPrice(t *testing.T) {
	p := ByPrice([]string{"$", "$$"})

	assert.True(t, p.Matches(restaurant("A", "", nil, 4, "$$")))
	assert.False(t, p.Matches(restaurant("B", "", nil, 4, "$$$")))
	assert.Equal(t, bson.M{"priceRange": bson.M{"$in": []string{"$", "$$"}}}, p.BSON())
}

func TestByText(t *testing.T) {
	r := restaurant("Pizza Palace", "", nil, 4, "$")
	r.Description = "Wood fired pizza and pasta"

	assert.True(t, ByText("pasta").Matches(r))
	assert.True(t, ByText("PIZZA").Matches(r))
	assert.False(t, ByText("sushi").Matches(r))
	assert.Equal(t, bson.M{"$text": bson.M{"$search": "pasta"}}, ByText("pasta").BSON())
}

func TestTextScore_Weights(t *testing.T) {
	r := restaurant("Pizza Palace", "", nil, 4, "$")
	r.Description = "Wood fired pizza and pasta"

	assert.Equal(t, float64(NameWeight+DescriptionWeight), TextScore("pizza", r))
	assert.Equal(t, float64(DescriptionWeight), TextScore("pasta", r))
	assert.Equal(t, float64(NameWeight+DescriptionWeight+DescriptionWeight), TextScore("pizza pasta", r))
	assert.Equal(t, float64(0), TextScore("", r))
	assert.Equal(t, float64(0), TextScore("!!!", r))
}

func TestAnd(t *testing.T) {
	a := restaurant("A", "Downtown", []string{"Italian"}, 4.5, "$$")
	p := And(ByActive(), ByLocation("down"), ByCuisines([]string{"Italian"}))

	assert.True(t, p.Matches(a))
	a.IsActive = false
	assert.False(t, p.Matches(a))

	assert.Equal(t, bson.M{
		"isActive": true,
		"location": primitive.Regex{Pattern: "down", Options: "i"},
		"cuisines": bson.M{"$in": []string{"Italian"}},
	}, p.BSON())
}

func TestAnd_FlattensAndSkipsNil(t *testing.T) {
	p := And(And(ByActive(), nil), ByPrice([]string{"$"}))
	and, ok := p.(andPredicate)
	require.True(t, ok)
	assert.Len(t, and.parts, 2)
}

func TestAnd_ClashingKeysUseExplicitAnd(t *testing.T) {
	p := And(ByLocation("down"), ByLocation("town"))
	clauses, ok := p.BSON()["$and"].(bson.A)
	require.True(t, ok)
	assert.Len(t, clauses, 2)

	assert.True(t, p.Matches(restaurant("A", "Downtown", nil, 4, "$")))
	assert.False(t, p.Matches(restaurant("B", "Uptown", nil, 4, "$")))
}

func TestAnd_Empty(t *testing.T) {
	p := And()
	assert.True(t, p.Matches(restaurant("A", "", nil, 1, "$")))
	assert.Equal(t, bson.M{}, p.BSON())
}

func TestBuildPredicate(t *testing.T) {
	p := BuildPredicate(Params{
		Location:    "Downtown",
		Cuisines:    []string{"Italian", "Mexican"},
		MinRating:   floatPtr(4),
		PriceRanges: []string{"$$"},
		Search:      "pasta",
	})

	filter := p.BSON()
	assert.Equal(t, true, filter["isActive"])
	assert.Contains(t, filter, "location")
	assert.Contains(t, filter, "cuisines")
	assert.Contains(t, filter, "rating")
	assert.Contains(t, filter, "priceRange")
	assert.Contains(t, filter, "$text")
}

func TestBuildPredicate_OnlyActiveByDefault(t *testing.T) {
	assert.Equal(t, bson.M{"isActive": true}, BuildPredicate(DefaultParams()).BSON())
}

func TestBuildPredicate_LocationAndCuisineComposition(t *testing.T) {
	p := BuildPredicate(Params{Location: "downtown", Cuisines: []string{"Italian", "Mexican"}})

	assert.True(t, p.Matches(restaurant("A", "Downtown", []string{"Italian"}, 4.5, "$$")))
	assert.True(t, p.Matches(restaurant("C", "Downtown", []string{"Mexican"}, 3.9, "$")))
	assert.False(t, p.Matches(restaurant("B", "Chinatown", []string{"Chinese"}, 4.2, "$")))
	assert.False(t, p.Matches(restaurant("D", "Downtown", []string{"Thai"}, 4.8, "$")))
	assert.False(t, p.Matches(restaurant("E", "Midtown", []string{"Italian"}, 4.8, "$")))
}
