package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for record dates and report labels.
const DateLayout = "2006-01-02"

// ParseDate reads a record date written either as YYYY-MM-DD or RFC3339 and
// returns the calendar day at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(DateLayout, str); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return Day(t), nil
}

// Day truncates t to its calendar day, keeping the wall-clock date in t's location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from -> to (negative when to is earlier).
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// FormatDate renders a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
