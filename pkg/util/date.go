package util

import (
	"errors"
	"strings"
	"time"
)

// ErrDateParse reports a record date that matched no accepted format.
var ErrDateParse = errors.New("unrecognized date format")

// DayFormat is the canonical calendar-day representation.
const DayFormat = "2006-01-02"

// recordDateLayouts are tried in order: plain date, ISO date-time without
// fraction, ISO date-time with fractional seconds, the same with a UTC
// marker, and space-separated date-time.
var recordDateLayouts = []string{
	DayFormat,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02 15:04:05",
}

// ParseRecordDate parses a historical record date, accepting the first
// matching layout. If none match, the date part before the first 'T' or
// space is retried as a plain date.
func ParseRecordDate(s string) (time.Time, error) {
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	datePart := s
	if i := strings.IndexAny(datePart, "T "); i >= 0 {
		datePart = datePart[:i]
	}
	if t, err := time.Parse(DayFormat, datePart); err == nil {
		return t, nil
	}

	return time.Time{}, ErrDateParse
}

// FutureDays returns n consecutive calendar days after last, formatted as
// plain dates.
func FutureDays(last time.Time, n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, last.AddDate(0, 0, i).Format(DayFormat))
	}
	return out
}
