package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUSPhone(t *testing.T) {
	components, err := ParseUSPhone("(555) 123-4567")
	require.NoError(t, err)

	assert.Equal(t, "555", components.AreaCode)
	assert.Equal(t, "123", components.Exchange)
	assert.Equal(t, "4567", components.Line)
	assert.Equal(t, "+15551234567", components.E164)
}

func TestParseUSPhone_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		phone string
	}{
		{"missing parentheses", "555 123-4567"},
		{"missing space", "(555)123-4567"},
		{"too few digits", "(555) 123-456"},
		{"letters", "(555) ABC-4567"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUSPhone(tt.phone)
			assert.Error(t, err)
		})
	}
}

func TestValidatePhoneFormat(t *testing.T) {
	assert.NoError(t, ValidatePhoneFormat("(212) 555-0199"))
	assert.Error(t, ValidatePhoneFormat("212-555-0199"))
	assert.Error(t, ValidatePhoneFormat("(212) 555-0199 "))
}
