// Package core holds the dashboard domain types and calendar-month helpers.
//
// Months are keyed as "YYYY-MM" strings, the same prefix the ledger stores in
// transaction dates, so a month key is always substr(date, 1, 7).
package core

import (
	"strings"
	"time"
)

const monthLayout = "2006-01"

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// MonthLabel returns the short English month name ("Jan", "Feb", ...).
func MonthLabel(t time.Time) string {
	return t.Format("Jan")
}

// FirstOfMonth truncates t to midnight on the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ParseMonth validates a "YYYY-MM" key and returns the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(monthLayout) {
		return time.Time{}, ErrInvalidMonth
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// MonthBuckets returns n consecutive month starts ending with the month of now,
// oldest first. n < 1 yields an empty slice.
func MonthBuckets(now time.Time, n int) []time.Time {
	if n < 1 {
		return []time.Time{}
	}
	start := FirstOfMonth(now)
	buckets := make([]time.Time, n)
	for i := 0; i < n; i++ {
		// time.Date normalises month underflow across year boundaries.
		buckets[i] = time.Date(start.Year(), start.Month()-time.Month(n-1-i), 1, 0, 0, 0, 0, start.Location())
	}
	return buckets
}
