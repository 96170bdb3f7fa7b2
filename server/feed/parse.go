package feed

import (
	"sort"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/pkg/errors"

	"github.com/hrygo/slotsense/server/feed/rrule"
)

// propWRTimezone is the non-standard calendar-level timezone property that
// Google and Apple feeds carry.
const propWRTimezone = "X-WR-TIMEZONE"

// BusyPeriod is one interval during which the calendar owner is not
// available.
type BusyPeriod struct {
	Start time.Time
	End   time.Time
}

// Parse decodes an iCalendar document.
func Parse(data string) (*ical.Calendar, error) {
	cal, err := ical.NewDecoder(strings.NewReader(data)).Decode()
	if err != nil {
		return nil, errors.Wrap(err, "decode iCalendar document")
	}
	return cal, nil
}

// TimezoneHint extracts the timezone declared by the calendar itself, or ""
// when the document declares none. The calendar-level X-WR-TIMEZONE property
// wins; the TZID of the first embedded VTIMEZONE definition is the fallback.
// A variably-shaped document never fails here, it just yields no hint.
func TimezoneHint(cal *ical.Calendar) string {
	if cal == nil {
		return ""
	}
	if prop := cal.Props.Get(propWRTimezone); prop != nil && prop.Value != "" {
		return prop.Value
	}
	for _, child := range cal.Children {
		if child.Name != ical.CompTimezone {
			continue
		}
		if prop := child.Props.Get(ical.PropTimezoneID); prop != nil && prop.Value != "" {
			return prop.Value
		}
	}
	return ""
}

// BusyPeriods extracts the busy intervals declared by the calendar's events,
// expanded over [from, to] and interpreted in loc. Transparent and cancelled
// events do not block availability. Recurring events are expanded via their
// RRULE; events the parser cannot make sense of are skipped rather than
// failing the request.
func BusyPeriods(cal *ical.Calendar, loc *time.Location, from, to time.Time) []BusyPeriod {
	if cal == nil {
		return nil
	}

	var periods []BusyPeriod
	for _, event := range cal.Events() {
		if isTransparent(event) || isCancelled(event) {
			continue
		}

		start, err := event.DateTimeStart(loc)
		if err != nil || start.IsZero() {
			continue
		}
		end, err := event.DateTimeEnd(loc)
		if err != nil || !end.After(start) {
			continue
		}
		duration := end.Sub(start)

		for _, occStart := range occurrences(event, start, to) {
			p := BusyPeriod{Start: occStart, End: occStart.Add(duration)}
			if p.End.After(from) && p.Start.Before(to) {
				periods = append(periods, p)
			}
		}
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods
}

// occurrences expands a recurring event's start times up to windowEnd. A
// non-recurring event, or one with an unparseable RRULE, occurs exactly once.
func occurrences(event ical.Event, start, windowEnd time.Time) []time.Time {
	prop := event.Props.Get(ical.PropRecurrenceRule)
	if prop == nil || prop.Value == "" {
		return []time.Time{start}
	}
	rule, err := rrule.Parse(prop.Value)
	if err != nil {
		return []time.Time{start}
	}
	return rule.Occurrences(start, windowEnd, rrule.DefaultMaxOccurrences)
}

func isTransparent(event ical.Event) bool {
	prop := event.Props.Get(ical.PropTransparency)
	return prop != nil && strings.EqualFold(prop.Value, "TRANSPARENT")
}

func isCancelled(event ical.Event) bool {
	prop := event.Props.Get(ical.PropStatus)
	return prop != nil && strings.EqualFold(prop.Value, "CANCELLED")
}
