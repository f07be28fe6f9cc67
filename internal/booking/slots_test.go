package booking

import (
	"testing"
	"time"
)

func TestDefaultGridWindows(t *testing.T) {
	windows := DefaultGrid().Windows()
	if len(windows) != 16 {
		t.Fatalf("expected 16 hourly slots, got %d", len(windows))
	}
	if windows[0].String() != "06:00-07:00" || windows[15].String() != "21:00-22:00" {
		t.Fatalf("grid runs %s .. %s", windows[0], windows[15])
	}
}

func TestNewGridRejectsBadShapes(t *testing.T) {
	cases := []struct {
		open, close string
		slot, res   int
	}{
		{"06:00", "22:00", 45, 30},
		{"06:00", "06:00", 60, 30},
		{"06:15", "22:00", 60, 30},
		{"06:00", "22:00", 60, 0},
		{"6h", "22:00", 60, 30},
	}
	for _, c := range cases {
		if _, err := NewGrid(c.open, c.close, c.slot, c.res); err == nil {
			t.Errorf("NewGrid(%s, %s, %d, %d) expected error", c.open, c.close, c.slot, c.res)
		}
	}
	g, err := NewGrid("08:00", "12:00", 30, 30)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if n := len(g.Windows()); n != 8 {
		t.Fatalf("expected 8 half-hour slots, got %d", n)
	}
}

func TestGridCheckWindow(t *testing.T) {
	g := DefaultGrid()
	bad := []Window{
		{MustClock("11:00"), MustClock("10:00")},
		{MustClock("10:00"), MustClock("10:00")},
		{MustClock("05:30"), MustClock("06:30")},
		{MustClock("21:30"), MustClock("22:30")},
		{MustClock("10:15"), MustClock("11:00")},
	}
	for _, w := range bad {
		if err := g.CheckWindow(w); !IsCode(err, CodeInvalidTimeRange) {
			t.Errorf("CheckWindow(%s) = %v, want InvalidTimeRange", w, err)
		}
	}
	if err := g.CheckWindow(Window{MustClock("10:30"), MustClock("12:00")}); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
}

func availableStarts(slots []Slot) map[string]bool {
	out := make(map[string]bool, len(slots))
	for _, s := range slots {
		out[s.Start.String()] = s.Available
	}
	return out
}

func TestGenerateSlots(t *testing.T) {
	court := Court{ID: 1, Enabled: true, Capacity: 4}
	date := MustDate("2024-01-15")
	grid := DefaultGrid()
	dayBefore := time.Date(2024, 1, 14, 20, 0, 0, 0, time.UTC)

	t.Run("future day with a reservation", func(t *testing.T) {
		active := []Window{{MustClock("10:30"), MustClock("11:30")}}
		got := availableStarts(GenerateSlots(court, date, grid, active, dayBefore))
		if got["10:00"] || got["11:00"] {
			t.Fatalf("slots overlapping 10:30-11:30 must be unavailable: %v", got)
		}
		if !got["09:00"] || !got["12:00"] || !got["06:00"] || !got["21:00"] {
			t.Fatalf("free slots marked unavailable: %v", got)
		}
	})

	t.Run("today masks started hours", func(t *testing.T) {
		now := time.Date(2024, 1, 15, 10, 20, 0, 0, time.UTC)
		got := availableStarts(GenerateSlots(court, date, grid, nil, now))
		if got["09:00"] || got["10:00"] {
			t.Fatalf("past and current hour must be unavailable: %v", got)
		}
		if !got["11:00"] {
			t.Fatalf("next hour should be available: %v", got)
		}
	})

	t.Run("past day", func(t *testing.T) {
		now := time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC)
		for _, s := range GenerateSlots(court, date, grid, nil, now) {
			if s.Available {
				t.Fatalf("slot %s on a past day is available", s.Start)
			}
		}
	})

	t.Run("disabled court", func(t *testing.T) {
		off := court
		off.Enabled = false
		for _, s := range GenerateSlots(off, date, grid, nil, dayBefore) {
			if s.Available {
				t.Fatalf("slot %s on a disabled court is available", s.Start)
			}
		}
	})
}
