// Package availability orchestrates the pipeline that turns a calendar feed
// into bookable hourly blocks: timezone resolution, shift template expansion,
// free interval computation and hourly bucketing.
package availability

import (
	"github.com/pkg/errors"

	"github.com/hrygo/slotsense/internal/profile"
	"github.com/hrygo/slotsense/server/slotengine"
	"github.com/hrygo/slotsense/server/timezone"
)

// ExpandTemplate turns the configured weekly shift template into one
// availability window per covered ISO weekday, starting from Monday. The
// expansion is deterministic and independent of any calendar feed.
func ExpandTemplate(p *profile.Profile) ([]slotengine.AvailabilityWindow, error) {
	start, err := timezone.ParseClock(p.ShiftStart)
	if err != nil {
		return nil, errors.Wrap(err, "shift start")
	}
	end, err := timezone.ParseClock(p.ShiftEnd)
	if err != nil {
		return nil, errors.Wrap(err, "shift end")
	}
	if !start.Before(end) {
		return nil, errors.Errorf("shift start %s is not before shift end %s", p.ShiftStart, p.ShiftEnd)
	}

	windows := make([]slotengine.AvailabilityWindow, 0, p.Weekdays)
	for day := 1; day <= p.Weekdays; day++ {
		windows = append(windows, slotengine.AvailabilityWindow{
			ISOWeekday: day,
			Shifts:     []slotengine.Shift{{Start: start, End: end}},
		})
	}
	return windows, nil
}
