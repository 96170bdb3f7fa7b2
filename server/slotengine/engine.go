// Package slotengine computes free booking intervals by subtracting busy
// periods from recurring availability windows.
//
// The engine is deliberately self-contained: it knows nothing about calendar
// feeds or HTTP. Callers hand it busy intervals, a window template and a time
// range, all in one location, and get back ordered free intervals.
package slotengine

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/slotsense/server/timezone"
)

// Shift is one open stretch of a working day, in local clock time.
type Shift struct {
	Start timezone.Clock
	End   timezone.Clock
}

// AvailabilityWindow describes the structurally open shifts of one ISO
// weekday (Monday=1 .. Sunday=7), independent of actual bookings.
type AvailabilityWindow struct {
	ISOWeekday int
	Shifts     []Shift
}

// Interval is a busy period with timezone-aware bounds.
type Interval struct {
	Start time.Time
	End   time.Time
}

// FreeInterval is a maximal open stretch inside an availability window that
// no busy period covers. Start is always strictly before End.
type FreeInterval struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// Config carries the engine invocation parameters.
type Config struct {
	// SlotDuration is the minimum length a free interval must have to be
	// worth offering.
	SlotDuration time.Duration
	// MinLeadTime is how far from "now" the earliest offered interval may
	// start.
	MinLeadTime time.Duration
	// MinTimeBeforeFirst optionally pushes the very first interval further
	// out than MinLeadTime.
	MinTimeBeforeFirst time.Duration
	// MaxDays bounds the search horizon in days from the range start.
	MaxDays int
	// AvailablePeriods is the expanded weekly template. Must not be empty.
	AvailablePeriods []AvailabilityWindow
	// Location is the single timezone all computation happens in.
	Location *time.Location
}

// Validate rejects structurally invalid configurations. A failure here is a
// service bug, not a calendar problem, and must abort the request before the
// engine runs.
func (c Config) Validate() error {
	if c.SlotDuration <= 0 {
		return errors.Errorf("slot duration must be positive, got %s", c.SlotDuration)
	}
	if len(c.AvailablePeriods) == 0 {
		return errors.New("no available periods configured")
	}
	if c.Location == nil {
		return errors.New("no location configured")
	}
	if c.MaxDays <= 0 {
		return errors.Errorf("max days must be positive, got %d", c.MaxDays)
	}
	if c.MinLeadTime < 0 || c.MinTimeBeforeFirst < 0 {
		return errors.New("lead times must not be negative")
	}
	for _, w := range c.AvailablePeriods {
		if w.ISOWeekday < 1 || w.ISOWeekday > 7 {
			return errors.Errorf("iso weekday %d out of range", w.ISOWeekday)
		}
		for _, s := range w.Shifts {
			if !s.Start.Before(s.End) {
				return errors.Errorf("shift start %02d:%02d not before end %02d:%02d",
					s.Start.Hour, s.Start.Minute, s.End.Hour, s.End.Minute)
			}
		}
	}
	return nil
}

// Engine subtracts busy periods from availability windows.
type Engine struct {
	cfg Config
}

// New creates an engine after validating the configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// FreeIntervals returns the free intervals between from and to, in
// chronological order. Every interval lies inside some availability window,
// outside every busy period, is at least SlotDuration long, and starts no
// earlier than now plus the configured lead time.
func (e *Engine) FreeIntervals(busy []Interval, from, to, now time.Time) []FreeInterval {
	loc := e.cfg.Location
	from = from.In(loc)
	to = to.In(loc)

	if horizon := from.AddDate(0, 0, e.cfg.MaxDays); to.After(horizon) {
		to = horizon
	}

	earliest := now.Add(e.cfg.MinLeadTime)
	if first := now.Add(e.cfg.MinTimeBeforeFirst); first.After(earliest) {
		earliest = first
	}
	if earliest.After(from) {
		from = earliest
	}

	merged := mergeIntervals(busy)
	shiftsByDay := make(map[int][]Shift, len(e.cfg.AvailablePeriods))
	for _, w := range e.cfg.AvailablePeriods {
		shiftsByDay[w.ISOWeekday] = append(shiftsByDay[w.ISOWeekday], w.Shifts...)
	}

	var free []FreeInterval
	for day := timezone.StartOfDay(from, loc); !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, shift := range shiftsByDay[timezone.ISOWeekday(day)] {
			winStart := shift.Start.On(day, loc)
			winEnd := shift.End.On(day, loc)
			if winStart.Before(from) {
				winStart = from
			}
			if winEnd.After(to) {
				winEnd = to
			}
			free = append(free, e.subtract(winStart, winEnd, merged)...)
		}
	}
	return free
}

// subtract carves the busy intervals out of one window and keeps the
// fragments long enough to book.
func (e *Engine) subtract(winStart, winEnd time.Time, busy []Interval) []FreeInterval {
	if !winStart.Before(winEnd) {
		return nil
	}

	var out []FreeInterval
	keep := func(start, end time.Time) {
		if end.Sub(start) >= e.cfg.SlotDuration {
			out = append(out, FreeInterval{Start: start, End: end, Duration: end.Sub(start)})
		}
	}

	cursor := winStart
	for _, b := range busy {
		if !b.End.After(winStart) {
			continue
		}
		if !b.Start.Before(winEnd) {
			break
		}
		if b.Start.After(cursor) {
			keep(cursor, minTime(b.Start, winEnd))
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(winEnd) {
		keep(cursor, winEnd)
	}
	return out
}

// mergeIntervals sorts busy intervals and merges overlapping or adjacent
// ones, so subtraction can walk them linearly.
func mergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !cur.Start.After(last.End) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
