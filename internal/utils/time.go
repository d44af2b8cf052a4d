package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DayKey returns the calendar day of t, in t's own location, as YYYY-MM-DD.
// Completion records are stored and looked up by this key.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDayInLocation parses a YYYY-MM-DD string as midnight in loc.
func ParseDayInLocation(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", day, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// SameDay reports whether a and b fall on the same calendar day. b is
// evaluated in a's location.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b.In(a.Location()))
}

// IsAfterDay reports whether a is on a later calendar day than b, ignoring
// the time of day. b is evaluated in a's location.
func IsAfterDay(a, b time.Time) bool {
	return DayKey(a) > DayKey(b.In(a.Location()))
}
