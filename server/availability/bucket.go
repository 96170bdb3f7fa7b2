package availability

import (
	"fmt"
	"time"

	"github.com/hrygo/slotsense/server/slotengine"
	"github.com/hrygo/slotsense/server/timezone"
)

const (
	// dateLayout renders block dates as DD-MM-YYYY.
	dateLayout = "02-01-2006"
	// displayLayout renders instants the way the booking frontends expect
	// them, e.g. "Mon Mar 02 2026 08:15:00 GMT+0000".
	displayLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"
)

// BookingSlot is one bookable stretch inside an hourly block, trimmed to the
// block's buffered bounds.
type BookingSlot struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
}

// HourlyBlock is a labeled stretch of a single date that contains at least
// one booking slot.
type HourlyBlock struct {
	Date         string        `json:"date"`
	Block        string        `json:"block"`
	Start        string        `json:"start"`
	End          string        `json:"end"`
	BookingSlots []BookingSlot `json:"bookingSlots"`
}

// Bucketer groups free intervals into fixed hourly blocks per date.
type Bucketer struct {
	// RangeStart and RangeEnd bound the candidate blocks of each date as
	// local hours, half open [RangeStart, RangeEnd).
	RangeStart int
	RangeEnd   int
	// StepHours is the block width.
	StepHours int
	// BufferBefore and BufferAfter trim each block's edges before matching
	// free intervals against it.
	BufferBefore time.Duration
	BufferAfter  time.Duration
	// Location is the resolved timezone all block bounds live in.
	Location *time.Location
}

// Bucket groups the free intervals into hourly blocks. Blocks without a
// single qualifying slot are dropped. Each date contributes at most
// perDateLimit blocks, and the flattened chronological result is truncated to
// limit; non-positive caps disable the respective stage.
func (b Bucketer) Bucket(free []slotengine.FreeInterval, perDateLimit, limit int) []HourlyBlock {
	blocks := []HourlyBlock{}
	for _, day := range b.groupByDate(free) {
		taken := 0
		for hour := b.RangeStart; hour < b.RangeEnd; hour += b.StepHours {
			if perDateLimit > 0 && taken >= perDateLimit {
				break
			}
			endHour := hour + b.StepHours
			if endHour > b.RangeEnd {
				endHour = b.RangeEnd
			}

			block := b.buildBlock(day, hour, endHour)
			if block == nil {
				continue
			}
			blocks = append(blocks, *block)
			taken++
		}
	}

	if limit > 0 && len(blocks) > limit {
		blocks = blocks[:limit]
	}
	return blocks
}

// dayIntervals is the free intervals of one date, in chronological order.
type dayIntervals struct {
	start     time.Time
	intervals []slotengine.FreeInterval
}

// groupByDate splits the intervals by their local calendar date, preserving
// the chronological order of the input.
func (b Bucketer) groupByDate(free []slotengine.FreeInterval) []dayIntervals {
	var days []dayIntervals
	index := make(map[time.Time]int)
	for _, interval := range free {
		key := timezone.StartOfDay(interval.Start, b.Location)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, dayIntervals{start: key})
		}
		days[i].intervals = append(days[i].intervals, interval)
	}
	return days
}

// buildBlock assembles one hourly block, or nil when no interval survives the
// buffered bounds.
func (b Bucketer) buildBlock(day dayIntervals, startHour, endHour int) *HourlyBlock {
	y, m, d := day.start.Date()
	blockStart := time.Date(y, m, d, startHour, 0, 0, 0, b.Location)
	blockEnd := time.Date(y, m, d, endHour, 0, 0, 0, b.Location)

	bufferStart := blockStart.Add(b.BufferBefore)
	bufferEnd := blockEnd.Add(-b.BufferAfter)
	if !bufferStart.Before(bufferEnd) {
		return nil
	}

	var slots []BookingSlot
	for _, interval := range day.intervals {
		if !interval.End.After(bufferStart) || !interval.Start.Before(bufferEnd) {
			continue
		}
		start := maxTime(interval.Start, bufferStart)
		end := minTime(interval.End, bufferEnd)
		if !start.Before(end) {
			continue
		}
		slots = append(slots, BookingSlot{
			Start:    start.Format(displayLayout),
			End:      end.Format(displayLayout),
			Duration: durationString(end.Sub(start)),
		})
	}
	if len(slots) == 0 {
		return nil
	}

	return &HourlyBlock{
		Date:         day.start.Format(dateLayout),
		Block:        fmt.Sprintf("%s-%s", hourLabel(startHour), hourLabel(endHour)),
		Start:        blockStart.Format(displayLayout),
		End:          blockEnd.Format(displayLayout),
		BookingSlots: slots,
	}
}

// hourLabel renders an hour of day as "8am", "12pm", "6pm".
func hourLabel(hour int) string {
	suffix := "am"
	if hour%24 >= 12 {
		suffix = "pm"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d%s", h, suffix)
}

// durationString renders a duration as "1h 30m".
func durationString(d time.Duration) string {
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
