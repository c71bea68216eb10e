// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by ledger entries and task due dates.
const DateLayout = "2006-01-02"

// acceptedLayouts lists the timestamp shapes a browser client is known to send.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp parses a client-supplied timestamp in any accepted layout.
// Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ParseOrDefault parses value and returns fallback when it is empty or invalid.
func ParseOrDefault(value string, fallback time.Time) time.Time {
	t, err := ParseTimestamp(value)
	if err != nil {
		return fallback
	}
	return t
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}
