package slotengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/slotsense/server/timezone"
)

// weekdayWindows builds one 08:00-18:00 shift for each given ISO weekday.
func weekdayWindows(days ...int) []AvailabilityWindow {
	windows := make([]AvailabilityWindow, 0, len(days))
	for _, d := range days {
		windows = append(windows, AvailabilityWindow{
			ISOWeekday: d,
			Shifts: []Shift{{
				Start: timezone.Clock{Hour: 8},
				End:   timezone.Clock{Hour: 18},
			}},
		})
	}
	return windows
}

func testConfig(windows []AvailabilityWindow) Config {
	return Config{
		SlotDuration:     30 * time.Minute,
		MaxDays:          7,
		AvailablePeriods: windows,
		Location:         time.UTC,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero slot duration", func(c *Config) { c.SlotDuration = 0 }, "slot duration"},
		{"no periods", func(c *Config) { c.AvailablePeriods = nil }, "available periods"},
		{"nil location", func(c *Config) { c.Location = nil }, "location"},
		{"zero max days", func(c *Config) { c.MaxDays = 0 }, "max days"},
		{"negative lead", func(c *Config) { c.MinLeadTime = -time.Hour }, "lead times"},
		{
			"weekday out of range",
			func(c *Config) { c.AvailablePeriods[0].ISOWeekday = 8 },
			"weekday",
		},
		{
			"inverted shift",
			func(c *Config) {
				c.AvailablePeriods[0].Shifts[0].End = timezone.Clock{Hour: 7}
			},
			"not before end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(weekdayWindows(1))
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFreeIntervals_EmptyCalendar(t *testing.T) {
	engine, err := New(testConfig(weekdayWindows(1)))
	require.NoError(t, err)

	// 2026-03-02 is a Monday.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	now := from.Add(-24 * time.Hour)

	free := engine.FreeIntervals(nil, from, to, now)
	require.Len(t, free, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), free[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), free[0].End)
	assert.Equal(t, 10*time.Hour, free[0].Duration)
}

func TestFreeIntervals_SubtractsBusy(t *testing.T) {
	engine, err := New(testConfig(weekdayWindows(1)))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	busy := []Interval{
		{Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)},
		{Start: day.Add(14 * time.Hour), End: day.Add(15 * time.Hour)},
	}

	free := engine.FreeIntervals(busy, day, day.AddDate(0, 0, 1), day.Add(-time.Hour))
	require.Len(t, free, 3)
	assert.Equal(t, day.Add(8*time.Hour), free[0].Start)
	assert.Equal(t, day.Add(10*time.Hour), free[0].End)
	assert.Equal(t, day.Add(11*time.Hour), free[1].Start)
	assert.Equal(t, day.Add(14*time.Hour), free[1].End)
	assert.Equal(t, day.Add(15*time.Hour), free[2].Start)
	assert.Equal(t, day.Add(18*time.Hour), free[2].End)
}

func TestFreeIntervals_MergesOverlappingBusy(t *testing.T) {
	engine, err := New(testConfig(weekdayWindows(1)))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	busy := []Interval{
		{Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)},
		{Start: day.Add(9 * time.Hour), End: day.Add(10*time.Hour + 30*time.Minute)},
	}

	free := engine.FreeIntervals(busy, day, day.AddDate(0, 0, 1), day.Add(-time.Hour))
	require.Len(t, free, 2)
	assert.Equal(t, day.Add(8*time.Hour), free[0].Start)
	assert.Equal(t, day.Add(9*time.Hour), free[0].End)
	assert.Equal(t, day.Add(11*time.Hour), free[1].Start)
	assert.Equal(t, day.Add(18*time.Hour), free[1].End)
}

func TestFreeIntervals_DropsShortFragments(t *testing.T) {
	cfg := testConfig(weekdayWindows(1))
	cfg.SlotDuration = time.Hour
	engine, err := New(cfg)
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	busy := []Interval{
		{Start: day.Add(8*time.Hour + 30*time.Minute), End: day.Add(18 * time.Hour)},
	}

	free := engine.FreeIntervals(busy, day, day.AddDate(0, 0, 1), day.Add(-time.Hour))
	assert.Empty(t, free, "the 30 minute fragment is below the slot duration")
}

func TestFreeIntervals_HonorsLeadTime(t *testing.T) {
	cfg := testConfig(weekdayWindows(1))
	cfg.MinLeadTime = time.Hour
	engine, err := New(cfg)
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(9 * time.Hour)

	free := engine.FreeIntervals(nil, day, day.AddDate(0, 0, 1), now)
	require.Len(t, free, 1)
	assert.Equal(t, day.Add(10*time.Hour), free[0].Start)
	assert.Equal(t, day.Add(18*time.Hour), free[0].End)
}

func TestFreeIntervals_BusySpanningWindowStart(t *testing.T) {
	engine, err := New(testConfig(weekdayWindows(1)))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	busy := []Interval{
		{Start: day.Add(7 * time.Hour), End: day.Add(9 * time.Hour)},
	}

	free := engine.FreeIntervals(busy, day, day.AddDate(0, 0, 1), day.Add(-time.Hour))
	require.Len(t, free, 1)
	assert.Equal(t, day.Add(9*time.Hour), free[0].Start)
	assert.Equal(t, day.Add(18*time.Hour), free[0].End)
}

func TestFreeIntervals_MaxDaysHorizon(t *testing.T) {
	cfg := testConfig(weekdayWindows(1, 2, 3, 4, 5, 6, 7))
	cfg.MaxDays = 2
	engine, err := New(cfg)
	require.NoError(t, err)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	free := engine.FreeIntervals(nil, from, from.AddDate(0, 0, 30), from.Add(-time.Hour))

	require.Len(t, free, 2)
	assert.Equal(t, 2, free[0].Start.Day())
	assert.Equal(t, 3, free[1].Start.Day())
	assert.True(t, free[0].Start.Before(free[1].Start), "intervals stay chronological")
}

func TestFreeIntervals_SkipsClosedWeekdays(t *testing.T) {
	// Monday and Wednesday open; the range covers Monday through Wednesday.
	engine, err := New(testConfig(weekdayWindows(1, 3)))
	require.NoError(t, err)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	free := engine.FreeIntervals(nil, from, from.AddDate(0, 0, 3), from.Add(-time.Hour))

	require.Len(t, free, 2)
	assert.Equal(t, time.Monday, free[0].Start.Weekday())
	assert.Equal(t, time.Wednesday, free[1].Start.Weekday())
}
