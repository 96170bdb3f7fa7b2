package profile

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/slotsense/server/timezone"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// Timezone is the service default IANA timezone, used when neither the
	// request nor the calendar feed declares one. Must always be valid.
	Timezone string

	// Weekdays is the number of ISO weekdays (starting from Monday) covered
	// by the recurring shift template.
	Weekdays int
	// ShiftStart and ShiftEnd bound the daily shift, as "HH:MM" local clock times.
	ShiftStart string
	ShiftEnd   string
	// ShiftRangeStart and ShiftRangeEnd bound the hourly bucketing range [start, end).
	ShiftRangeStart int
	ShiftRangeEnd   int
	// ShiftRangeStep is the bucket width in hours.
	ShiftRangeStep int

	// SlotDuration is the minimum bookable slot length in minutes.
	SlotDuration int
	// SlotInterval is the minimum lead time in minutes before the first
	// offered slot.
	SlotInterval int
	// SlotBufferBefore and SlotBufferAfter are the minutes trimmed from each
	// hourly block's edges before matching free intervals.
	SlotBufferBefore int
	SlotBufferAfter  int

	// DefaultSlotLimit caps the number of returned hourly blocks when the
	// request does not specify a limit.
	DefaultSlotLimit int
	// DefaultDaysLimit is the search horizon in days when the request does
	// not specify one.
	DefaultDaysLimit int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// SlotDurationValue returns the minimum slot length as a duration.
func (p *Profile) SlotDurationValue() time.Duration {
	return time.Duration(p.SlotDuration) * time.Minute
}

// SlotIntervalValue returns the minimum lead time as a duration.
func (p *Profile) SlotIntervalValue() time.Duration {
	return time.Duration(p.SlotInterval) * time.Minute
}

// Validate normalizes the profile and rejects configurations the pipeline
// cannot run with. The default timezone must be valid here so that downstream
// resolution can always fall back to it.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if !timezone.IsValid(p.Timezone) {
		return errors.Errorf("invalid default timezone %q", p.Timezone)
	}
	if p.Weekdays < 1 || p.Weekdays > 7 {
		return errors.Errorf("weekdays must be within 1..7, got %d", p.Weekdays)
	}
	if _, err := timezone.ParseClock(p.ShiftStart); err != nil {
		return errors.Wrap(err, "invalid shift start")
	}
	if _, err := timezone.ParseClock(p.ShiftEnd); err != nil {
		return errors.Wrap(err, "invalid shift end")
	}
	if p.ShiftRangeStart < 0 || p.ShiftRangeEnd > 24 || p.ShiftRangeStart >= p.ShiftRangeEnd {
		return errors.Errorf("invalid shift hour range [%d, %d)", p.ShiftRangeStart, p.ShiftRangeEnd)
	}
	if p.ShiftRangeStep < 1 {
		p.ShiftRangeStep = 2
	}
	if p.SlotDuration < 1 {
		return errors.Errorf("slot duration must be positive, got %d", p.SlotDuration)
	}
	if p.SlotInterval < 0 || p.SlotBufferBefore < 0 || p.SlotBufferAfter < 0 {
		return errors.New("slot interval and buffers must not be negative")
	}
	if p.DefaultSlotLimit < 1 {
		return errors.Errorf("default slot limit must be positive, got %d", p.DefaultSlotLimit)
	}
	if p.DefaultDaysLimit < 1 {
		return errors.Errorf("default days limit must be positive, got %d", p.DefaultDaysLimit)
	}
	return nil
}
