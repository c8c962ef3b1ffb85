// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/design-loan-quote/pkg/constants"
)

const (
	// DateTimeLayout is the format expected for quotation start dates and is
	// also the due date output format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseMonth validates a YYYY-MM date and returns it trimmed.
func ParseMonth(date string) (string, error) {
	trimmed := strings.TrimSpace(date)
	if _, err := time.Parse(DateTimeLayout, trimmed); err != nil {
		return "", fmt.Errorf("invalid month %q, expected YYYY-MM: %w", date, err)
	}
	return trimmed, nil
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// DueDates lists count consecutive months beginning with start.
func DueDates(start string, count int) ([]string, error) {
	if _, err := time.Parse(DateTimeLayout, start); err != nil {
		return nil, err
	}
	if count <= 0 {
		return []string{}, nil
	}
	dates := make([]string, count)
	for i := range dates {
		due, err := OffsetDate(start, DateTimeLayout, i)
		if err != nil {
			return nil, err
		}
		dates[i] = due
	}
	return dates, nil
}
