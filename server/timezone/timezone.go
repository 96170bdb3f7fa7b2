// Package timezone provides timezone utilities for the slotsense service.
//
// All timestamps in a request are interpreted in a single resolved location.
// The location is resolved once per request and threaded explicitly through
// every downstream call; nothing in this package mutates process state.
package timezone

import (
	"fmt"
	"time"
)

// Parse parses an IANA timezone identifier (e.g. "Europe/Berlin").
// Unlike time.LoadLocation, an empty identifier is rejected: an absent
// timezone is a caller-level decision, never an implicit local zone.
func Parse(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, fmt.Errorf("empty timezone identifier")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// MustParse parses a timezone or panics if invalid.
// Use this for identifiers that are known to be valid at compile time.
func MustParse(tz string) *time.Location {
	loc, err := Parse(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValid checks if a timezone identifier is valid.
func IsValid(tz string) bool {
	_, err := Parse(tz)
	return err == nil
}

// Resolve determines the location used for interpreting a request.
//
// Precedence: a requested timezone wins but must be valid, otherwise Resolve
// fails and the caller surfaces the error to the requester. With no request
// override, a hint extracted from the calendar feed is tried; a missing or
// invalid hint falls through to the service default, which is assumed valid.
func Resolve(requested, feedHint string, fallback *time.Location) (*time.Location, error) {
	if requested != "" {
		loc, err := Parse(requested)
		if err != nil {
			return nil, err
		}
		return loc, nil
	}
	if feedHint != "" {
		if loc, err := Parse(feedHint); err == nil {
			return loc, nil
		}
	}
	return fallback, nil
}

// Clock is a local wall-clock time of day, e.g. the start of a shift.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a "HH:MM" clock string.
func ParseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("clock time %q out of range", s)
	}
	return c, nil
}

// On places the clock time on the given calendar day in the given location.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// Before reports whether c is earlier in the day than other.
func (c Clock) Before(other Clock) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// StartOfDay returns the beginning of the day containing t in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ISOWeekday returns the ISO 8601 weekday of t: Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
