// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

// MustParseDate parses a date string in DateLayout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(dateStr string) time.Time {
	t, err := ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a calendar date. Besides DateLayout it accepts RFC 3339
// timestamps, as sent by browser date pickers, and keeps only their date part.
func ParseDate(dateStr string) (time.Time, error) {
	trimmed := strings.TrimSpace(dateStr)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, trimmed); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", dateStr, DateLayout)
	}
	return Truncate(t), nil
}

// Truncate drops the time-of-day and location, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders a date in DateLayout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// OffsetDays returns the date offset by the given number of calendar days.
func OffsetDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}
