// utils/dates.go
package utils

import (
	"time"

	"intellibiz-backend/models"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Tomorrow returns the calendar date after t in appointment date format.
func Tomorrow(t time.Time) string {
	return BeginningOfDay(t).AddDate(0, 0, 1).Format(models.DateLayout)
}
