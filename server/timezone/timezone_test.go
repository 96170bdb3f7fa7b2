package timezone

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{
			name:    "UTC",
			tz:      "UTC",
			wantErr: false,
		},
		{
			name:    "empty string rejected",
			tz:      "",
			wantErr: true,
		},
		{
			name:    "Europe/Berlin",
			tz:      "Europe/Berlin",
			wantErr: false,
		},
		{
			name:    "America/New_York",
			tz:      "America/New_York",
			wantErr: false,
		},
		{
			name:    "invalid timezone",
			tz:      "Not/ARealZone",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Parse(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("Parse() returned nil location without error")
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want bool
	}{
		{"UTC", "UTC", true},
		{"empty", "", false},
		{"Europe/Berlin", "Europe/Berlin", true},
		{"invalid", "Not/ARealZone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.tz); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	fallback := time.UTC

	tests := []struct {
		name      string
		requested string
		feedHint  string
		want      string
		wantErr   bool
	}{
		{
			name:      "requested wins over hint",
			requested: "Europe/Berlin",
			feedHint:  "Asia/Tokyo",
			want:      "Europe/Berlin",
		},
		{
			name:      "invalid requested fails, never falls back",
			requested: "Not/ARealZone",
			feedHint:  "Asia/Tokyo",
			wantErr:   true,
		},
		{
			name:     "hint used when no request override",
			feedHint: "Asia/Tokyo",
			want:     "Asia/Tokyo",
		},
		{
			name:     "invalid hint degrades to fallback",
			feedHint: "Garbage",
			want:     "UTC",
		},
		{
			name: "no request, no hint",
			want: "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Resolve(tt.requested, tt.feedHint, fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if loc.String() != tt.want {
				t.Errorf("Resolve() = %v, want %v", loc, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Clock
		wantErr bool
	}{
		{"morning", "08:00", Clock{8, 0}, false},
		{"evening", "18:30", Clock{18, 30}, false},
		{"hour out of range", "25:00", Clock{}, true},
		{"minute out of range", "08:61", Clock{}, true},
		{"garbage", "eight", Clock{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseClock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClockOn(t *testing.T) {
	loc := MustParse("Europe/Berlin")
	day := time.Date(2026, 3, 2, 17, 45, 0, 0, loc)

	got := Clock{Hour: 8, Minute: 30}.On(day, loc)
	want := time.Date(2026, 3, 2, 8, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := MustParse("Asia/Shanghai")
	// 2026-01-21 14:30:00 UTC is already 22:30 in Shanghai.
	in := time.Date(2026, 1, 21, 14, 30, 0, 0, time.UTC)

	got := StartOfDay(in, loc)
	want := time.Date(2026, 1, 21, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-08 a Sunday.
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	if got := ISOWeekday(monday); got != 1 {
		t.Errorf("ISOWeekday(Monday) = %d, want 1", got)
	}
	if got := ISOWeekday(sunday); got != 7 {
		t.Errorf("ISOWeekday(Sunday) = %d, want 7", got)
	}
}
