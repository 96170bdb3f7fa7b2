// Package rrule parses and expands RFC 5545 recurrence rules (RRULE)
// declared on calendar events.
//
// Only the expansion needed for busy-period computation is implemented:
// FREQ with INTERVAL, COUNT, UNTIL and (for weekly rules) BYDAY. Finer
// BY* refinements are parsed and ignored.
package rrule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxOccurrences bounds expansion of rules without COUNT or UNTIL.
const DefaultMaxOccurrences = 1000

// Frequency represents the recurrence frequency.
type Frequency string

const (
	Secondly Frequency = "SECONDLY"
	Minutely Frequency = "MINUTELY"
	Hourly   Frequency = "HOURLY"
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	Monthly  Frequency = "MONTHLY"
	Yearly   Frequency = "YEARLY"
)

// Weekday represents the day of week for recurrence.
type Weekday string

const (
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "SU"
)

// mondayOffset maps a weekday to its offset from Monday, the week anchor.
var mondayOffset = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3,
	Friday: 4, Saturday: 5, Sunday: 6,
}

// Rule represents a parsed recurrence rule.
type Rule struct {
	Frequency Frequency // FREQ, required
	Interval  int       // INTERVAL, default 1
	Count     int       // COUNT, 0 = unbounded
	Until     time.Time // UNTIL, zero = unbounded
	ByDay     []Weekday // BYDAY, weekly rules only
}

// Parse parses an RRULE value, e.g. "FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=10".
func Parse(value string) (*Rule, error) {
	rule := &Rule{Interval: 1}

	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "FREQ":
			rule.Frequency = Frequency(strings.ToUpper(val))
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("invalid INTERVAL %q", val)
			}
			rule.Interval = n
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("invalid COUNT %q", val)
			}
			rule.Count = n
		case "UNTIL":
			t, err := parseUntil(val)
			if err != nil {
				return nil, err
			}
			rule.Until = t
		case "BYDAY":
			for _, d := range strings.Split(val, ",") {
				day := Weekday(strings.ToUpper(strings.TrimSpace(d)))
				if _, ok := mondayOffset[day]; !ok {
					return nil, fmt.Errorf("invalid BYDAY entry %q", d)
				}
				rule.ByDay = append(rule.ByDay, day)
			}
		}
	}

	if rule.Frequency == "" {
		return nil, fmt.Errorf("missing required FREQ in RRULE %q", value)
	}
	if rule.Interval < 1 {
		rule.Interval = 1
	}
	return rule, nil
}

// parseUntil handles both DATE-TIME ("20260102T150405Z") and DATE ("20260102")
// forms of the UNTIL part.
func parseUntil(value string) (time.Time, error) {
	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid UNTIL %q", value)
}

// Occurrences expands the rule into occurrence start times, beginning at the
// event's start and ending at windowEnd, UNTIL or COUNT, whichever comes
// first. At most max occurrences are produced (DefaultMaxOccurrences when
// max <= 0). The event start is always the first occurrence.
func (r *Rule) Occurrences(eventStart, windowEnd time.Time, max int) []time.Time {
	if max <= 0 {
		max = DefaultMaxOccurrences
	}

	if r.Frequency == Weekly && len(r.ByDay) > 0 {
		return r.weeklyByDay(eventStart, windowEnd, max)
	}

	var out []time.Time
	for current := eventStart; len(out) < max; current = r.stride(current) {
		if !r.include(current, windowEnd) {
			break
		}
		out = append(out, current)
		if r.Count > 0 && len(out) >= r.Count {
			break
		}
	}
	return out
}

// weeklyByDay walks interval weeks from the event's week and emits the BYDAY
// days of each week at the event's clock time.
func (r *Rule) weeklyByDay(eventStart, windowEnd time.Time, max int) []time.Time {
	loc := eventStart.Location()
	// Monday of the event's week.
	anchor := eventStart.AddDate(0, 0, -mondayOffsetOf(eventStart.Weekday()))

	offsets := make([]int, 0, len(r.ByDay))
	for _, day := range r.ByDay {
		offsets = append(offsets, mondayOffset[day])
	}
	sort.Ints(offsets)

	var out []time.Time
	for week := anchor; !week.After(windowEnd); week = week.AddDate(0, 0, 7*r.Interval) {
		for _, off := range offsets {
			occ := time.Date(week.Year(), week.Month(), week.Day()+off,
				eventStart.Hour(), eventStart.Minute(), eventStart.Second(), 0, loc)
			if occ.Before(eventStart) {
				continue
			}
			if !r.include(occ, windowEnd) {
				return out
			}
			out = append(out, occ)
			if len(out) >= max || (r.Count > 0 && len(out) >= r.Count) {
				return out
			}
		}
	}
	return out
}

// include reports whether an occurrence at t is still within the rule's and
// the caller's bounds.
func (r *Rule) include(t, windowEnd time.Time) bool {
	if t.After(windowEnd) {
		return false
	}
	if !r.Until.IsZero() && t.After(r.Until) {
		return false
	}
	return true
}

// stride advances one frequency interval.
func (r *Rule) stride(t time.Time) time.Time {
	switch r.Frequency {
	case Secondly:
		return t.Add(time.Duration(r.Interval) * time.Second)
	case Minutely:
		return t.Add(time.Duration(r.Interval) * time.Minute)
	case Hourly:
		return t.Add(time.Duration(r.Interval) * time.Hour)
	case Daily:
		return t.AddDate(0, 0, r.Interval)
	case Weekly:
		return t.AddDate(0, 0, 7*r.Interval)
	case Monthly:
		return t.AddDate(0, r.Interval, 0)
	case Yearly:
		return t.AddDate(r.Interval, 0, 0)
	default:
		return t.AddDate(0, 0, r.Interval)
	}
}

func mondayOffsetOf(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
