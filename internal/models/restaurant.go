package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekdays lists the keys of Restaurant.Hours in display order
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ClosedHours is the value stored for days without opening hours
const ClosedHours = "Closed"

// SupportedCuisines is the cuisine enumeration accepted on writes
var SupportedCuisines = []string{
	"Italian", "Chinese", "Indian", "Mexican", "Thai", "Japanese",
	"American", "French", "Mediterranean", "Korean", "Vietnamese",
	"Greek", "Spanish", "Brazilian", "Lebanese", "Turkish",
}

// PriceRanges is the four-tier price enumeration
var PriceRanges = []string{"$", "$$", "$$$", "$$$$"}

// IsSupportedCuisine reports whether c is a member of SupportedCuisines
func IsSupportedCuisine(c string) bool {
	for _, supported := range SupportedCuisines {
		if supported == c {
			return true
		}
	}
	return false
}

// IsPriceRange reports whether p is one of the four price tiers
func IsPriceRange(p string) bool {
	for _, tier := range PriceRanges {
		if tier == p {
			return true
		}
	}
	return false
}

// Address is a restaurant's postal address
type Address struct {
	Street  string `bson:"street" json:"street" yaml:"street" validate:"required"`
	City    string `bson:"city" json:"city" yaml:"city" validate:"required"`
	State   string `bson:"state" json:"state" yaml:"state" validate:"required,max=50"`
	ZipCode string `bson:"zipCode" json:"zipCode" yaml:"zipCode" validate:"required,zipcode"`
}

// Restaurant is a document of the restaurants collection
type Restaurant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Location    string             `bson:"location" json:"location"`
	Cuisines    []string           `bson:"cuisines" json:"cuisines"`
	Rating      float64            `bson:"rating" json:"rating"`
	PriceRange  string             `bson:"priceRange" json:"priceRange"`
	Address     Address            `bson:"address" json:"address"`
	Phone       string             `bson:"phone" json:"phone"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Hours       map[string]string  `bson:"hours,omitempty" json:"hours,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	Score       *float64           `bson:"textScore,omitempty" json:"textScore,omitempty"`
}

// AddressSummary is the part of the address shown on listing cards
type AddressSummary struct {
	City  string `bson:"city" json:"city"`
	State string `bson:"state" json:"state"`
}

// RestaurantSummary is the list projection of a restaurant
type RestaurantSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Location    string             `json:"location"`
	Cuisines    []string           `json:"cuisines"`
	Rating      float64            `json:"rating"`
	ImageURL    string             `json:"imageUrl"`
	PriceRange  string             `json:"priceRange"`
	Description string             `json:"description,omitempty"`
	Phone       string             `json:"phone"`
	Address     AddressSummary     `json:"address"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Score       *float64           `json:"textScore,omitempty"`
}

// ToSummary converts a Restaurant to its list projection
func (r *Restaurant) ToSummary() RestaurantSummary {
	cuisines := r.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	return RestaurantSummary{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		Cuisines:    cuisines,
		Rating:      r.Rating,
		ImageURL:    r.ImageURL,
		PriceRange:  r.PriceRange,
		Description: r.Description,
		Phone:       r.Phone,
		Address:     AddressSummary{City: r.Address.City, State: r.Address.State},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Score:       r.Score,
	}
}

// HasCuisine reports whether the restaurant serves any of the given cuisines
func (r *Restaurant) HasCuisine(set map[string]struct{}) bool {
	for _, c := range r.Cuisines {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}

// NormalizeHours fills every weekday missing from hours with ClosedHours
func NormalizeHours(hours map[string]string) map[string]string {
	normalized := make(map[string]string, len(Weekdays))
	for _, day := range Weekdays {
		if v, ok := hours[day]; ok && v != "" {
			normalized[day] = v
		} else {
			normalized[day] = ClosedHours
		}
	}
	return normalized
}
