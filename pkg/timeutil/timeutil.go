// Package timeutil provides date helpers for the guidance pipeline. Guidance
// is stored against a calendar date, so all helpers work in local server
// time and format dates as ISO 8601 (YYYY-MM-DD).
// No external dependencies - uses only standard library.
package timeutil

import "time"

// DateLayout is the wire format for guidance dates.
const DateLayout = "2006-01-02"

// Today returns today's date formatted for the guidance API.
func Today() string {
	return FormatDate(time.Now())
}

// FormatDate formats a time as an ISO 8601 date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO 8601 date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// StartOfDay returns the start of the day (00:00:00) in the time's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
