package observability

import (
	"strings"

	"github.com/forkful/restaurant-finder/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskPhone keeps only the last four digits of a phone number for logging
func MaskPhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 4 {
		return "****"
	}
	return "***-***-" + string(digits[len(digits)-4:])
}

// TruncateForLog shortens free-text values such as search terms before they
// are attached to log lines
func TruncateForLog(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "..."
}
