package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayLayout is the wire format of calendar days
const DayLayout = "2006-01-02"

const localTimeLayout = "15:04"

// ParseUUID validates a UUID and returns its canonical lowercase form
func ParseUUID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return id.String(), nil
}

// ParseDay parses a YYYY-MM-DD calendar day into UTC midnight
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expected YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// FormatDay renders a calendar day as YYYY-MM-DD
func FormatDay(d time.Time) string {
	return d.Format(DayLayout)
}

// Today returns the calendar day of now, in now's location, as UTC midnight
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseLocalTime validates an "HH:MM" wall-clock time
func ParseLocalTime(s string) (string, error) {
	t, err := time.Parse(localTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM: %w", s, err)
	}
	return t.Format(localTimeLayout), nil
}

// SanitizeEmail trims surrounding whitespace. Case is preserved because
// emails are stored case-sensitively.
func SanitizeEmail(email string) string {
	return strings.TrimSpace(email)
}
