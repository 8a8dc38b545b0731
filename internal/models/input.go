package models

import (
	"math"
	"strings"
	"time"
)

// RestaurantInput is the body accepted by the create and update endpoints
type RestaurantInput struct {
	Name        string            `json:"name" yaml:"name" validate:"required,max=100"`
	Location    string            `json:"location" yaml:"location" validate:"required,max=50"`
	Cuisines    []string          `json:"cuisines" yaml:"cuisines" validate:"required,min=1,dive,cuisine"`
	Rating      *float64          `json:"rating" yaml:"rating" validate:"required,min=1,max=5"`
	Address     Address           `json:"address" yaml:"address"`
	Phone       string            `json:"phone" yaml:"phone" validate:"required,usphone"`
	ImageURL    string            `json:"imageUrl" yaml:"imageUrl" validate:"required,http_url"`
	PriceRange  string            `json:"priceRange" yaml:"priceRange" validate:"required,pricerange"`
	Description string            `json:"description,omitempty" yaml:"description" validate:"max=500"`
	Hours       map[string]string `json:"hours,omitempty" yaml:"hours" validate:"omitempty,dive,keys,weekday,endkeys"`
}

// RoundRating rounds a rating to one decimal place
func RoundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

// ToRestaurant builds a new active restaurant from a validated input
func (in *RestaurantInput) ToRestaurant(now time.Time) *Restaurant {
	r := &Restaurant{
		IsActive:  true,
		CreatedAt: now,
	}
	in.ApplyTo(r, now)
	return r
}

// ApplyTo copies the input's fields onto r, normalising them the same way
// for creates and updates
func (in *RestaurantInput) ApplyTo(r *Restaurant, now time.Time) {
	r.Name = strings.TrimSpace(in.Name)
	r.Location = strings.TrimSpace(in.Location)
	r.Cuisines = append([]string(nil), in.Cuisines...)
	if in.Rating != nil {
		r.Rating = RoundRating(*in.Rating)
	}
	r.PriceRange = in.PriceRange
	r.Address = Address{
		Street:  strings.TrimSpace(in.Address.Street),
		City:    strings.TrimSpace(in.Address.City),
		State:   strings.TrimSpace(in.Address.State),
		ZipCode: strings.TrimSpace(in.Address.ZipCode),
	}
	r.Phone = strings.TrimSpace(in.Phone)
	r.ImageURL = strings.TrimSpace(in.ImageURL)
	r.Description = strings.TrimSpace(in.Description)
	r.Hours = NormalizeHours(in.Hours)
	r.UpdatedAt = now
}
