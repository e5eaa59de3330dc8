// utils/validation.go
package utils

import (
	"regexp"
	"strings"
	"time"

	"intellibiz-backend/models"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

// Field is a named required value.
type Field struct {
	Name  string
	Value string
}

// MissingFields returns the names whose values are blank, in order.
func MissingFields(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// ClockBefore reports whether HH:MM a is strictly before b. Both must parse.
func ClockBefore(a, b string) (bool, bool) {
	ta, err := time.Parse(models.TimeLayout, a)
	if err != nil {
		return false, false
	}
	tb, err := time.Parse(models.TimeLayout, b)
	if err != nil {
		return false, false
	}
	return ta.Before(tb), true
}
