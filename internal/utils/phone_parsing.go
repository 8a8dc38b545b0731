package utils

import (
	"fmt"
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

var usPhoneFormat = regexp.MustCompile(`^\(\d{3}\)\s\d{3}-\d{4}$`)

// PhoneComponents represents the parsed components of a US phone number
type PhoneComponents struct {
	AreaCode string `json:"areaCode"`
	Exchange string `json:"exchange"`
	Line     string `json:"line"`
	E164     string `json:"e164"`
}

// ParseUSPhone parses a phone number in the (NNN) NNN-NNNN display format
func ParseUSPhone(phoneString string) (*PhoneComponents, error) {
	if err := ValidatePhoneFormat(phoneString); err != nil {
		return nil, err
	}

	num, err := phonenumbers.Parse(phoneString, "US")
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	// Placeholder exchanges such as 555 are allowed, so only the length is checked
	if !phonenumbers.IsPossibleNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	national := phonenumbers.GetNationalSignificantNumber(num)
	if len(national) != 10 {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	return &PhoneComponents{
		AreaCode: national[:3],
		Exchange: national[3:6],
		Line:     national[6:],
		E164:     phonenumbers.Format(num, phonenumbers.E164),
	}, nil
}

// ValidatePhoneFormat checks the (NNN) NNN-NNNN display format
func ValidatePhoneFormat(phoneString string) error {
	if !usPhoneFormat.MatchString(phoneString) {
		return fmt.Errorf("phone must match (123) 456-7890: %q", phoneString)
	}
	return nil
}
