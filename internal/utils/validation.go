package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	zipCodeFormat  = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	objectIDFormat = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	indexSuffix    = regexp.MustCompile(`\[[^\]]*\]`)

	validate     *validator.Validate
	validateOnce sync.Once
)

// restaurantMessages maps "<field path>.<tag>" to the message reported to clients
var restaurantMessages = map[string]string{
	"name.required":            "Restaurant name is required",
	"name.max":                 "Restaurant name cannot exceed 100 characters",
	"location.required":        "Location is required",
	"location.max":             "Location cannot exceed 50 characters",
	"cuisines.required":        "Cuisines are required",
	"cuisines.min":             "At least one cuisine must be selected",
	"cuisines.cuisine":         "Cuisine must be one of: " + strings.Join(models.SupportedCuisines, ", "),
	"rating.required":          "Rating is required",
	"rating.min":               "Rating must be at least 1",
	"rating.max":               "Rating cannot exceed 5",
	"address.street.required":  "Street address is required",
	"address.city.required":    "City is required",
	"address.state.required":   "State is required",
	"address.state.max":        "State cannot exceed 50 characters",
	"address.zipCode.required": "Zip code is required",
	"address.zipCode.zipcode":  "Please enter a valid zip code (e.g., 12345 or 12345-6789)",
	"phone.required":           "Phone number is required",
	"phone.usphone":            "Phone format must be: (123) 456-7890",
	"imageUrl.required":        "Image URL is required",
	"imageUrl.http_url":        "Please provide a valid URL",
	"priceRange.required":      "Price range is required",
	"priceRange.pricerange":    "Price range must be one of: $, $$, $$$, $$$$",
	"description.max":          "Description cannot exceed 500 characters",
	"hours.weekday":            "Hours must be keyed by weekday (monday through sunday)",
}

// Validator returns the shared validator with the restaurant rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		// Report fields by their JSON names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister(v, "cuisine", func(fl validator.FieldLevel) bool {
			return models.IsSupportedCuisine(fl.Field().String())
		})
		mustRegister(v, "pricerange", func(fl validator.FieldLevel) bool {
			return models.IsPriceRange(fl.Field().String())
		})
		mustRegister(v, "zipcode", func(fl validator.FieldLevel) bool {
			return zipCodeFormat.MatchString(fl.Field().String())
		})
		mustRegister(v, "usphone", func(fl validator.FieldLevel) bool {
			_, err := ParseUSPhone(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
			day := fl.Field().String()
			for _, d := range models.Weekdays {
				if d == day {
					return true
				}
			}
			return false
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// ValidateRestaurantInput checks a create or update body and reports every
// invalid field
func ValidateRestaurantInput(input *models.RestaurantInput) error {
	err := Validator().Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("failed to validate restaurant: %w", err)
	}

	details := make([]models.FieldError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		path := fieldPath(fe.Namespace())
		details = append(details, models.FieldError{
			Field:   path,
			Message: fieldMessage(path, fe),
			Value:   fe.Value(),
		})
	}
	return models.NewValidationError("Invalid restaurant data", details...)
}

// fieldPath drops the struct name from a validator namespace
// ("RestaurantInput.address.zipCode" becomes "address.zipCode")
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(path string, fe validator.FieldError) string {
	key := indexSuffix.ReplaceAllString(path, "") + "." + fe.Tag()
	if msg, ok := restaurantMessages[key]; ok {
		return msg
	}
	return fmt.Sprintf("%q failed the %q rule", path, fe.Tag())
}

// ParseRestaurantID validates a 24 hex character identifier
func ParseRestaurantID(id string) (primitive.ObjectID, error) {
	if !objectIDFormat.MatchString(id) {
		return primitive.NilObjectID, models.ErrInvalidRestaurantID
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidRestaurantID
	}
	return oid, nil
}
