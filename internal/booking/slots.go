package booking

import (
	"fmt"
	"time"
)

// Grid is the club's daily booking grid.
type Grid struct {
	Open       Minute
	Close      Minute
	SlotLength Minute
	Resolution Minute
}

// DefaultGrid is 06:00-22:00 in hourly slots on a half-hour resolution.
func DefaultGrid() Grid {
	return Grid{Open: 6 * 60, Close: 22 * 60, SlotLength: 60, Resolution: 30}
}

// NewGrid builds a grid from "HH:MM" bounds and minute lengths.
func NewGrid(open, close string, slotMinutes, resolutionMinutes int) (Grid, error) {
	o, err := ParseClock(open)
	if err != nil {
		return Grid{}, fmt.Errorf("grid open: %w", err)
	}
	c, err := ParseClock(close)
	if err != nil {
		return Grid{}, fmt.Errorf("grid close: %w", err)
	}
	g := Grid{Open: o, Close: c, SlotLength: Minute(slotMinutes), Resolution: Minute(resolutionMinutes)}
	switch {
	case g.Resolution <= 0:
		return Grid{}, fmt.Errorf("grid resolution must be positive")
	case g.SlotLength <= 0 || g.SlotLength%g.Resolution != 0:
		return Grid{}, fmt.Errorf("grid slot length must be a positive multiple of the resolution")
	case g.Close <= g.Open:
		return Grid{}, fmt.Errorf("grid close must be after open")
	case !g.onResolution(g.Open) || !g.onResolution(g.Close):
		return Grid{}, fmt.Errorf("grid bounds must sit on the resolution")
	}
	return g, nil
}

func (g Grid) onResolution(m Minute) bool { return m%g.Resolution == 0 }

// Windows lists the fixed slot windows from Open to Close.
func (g Grid) Windows() []Window {
	var out []Window
	for s := g.Open; s+g.SlotLength <= g.Close; s += g.SlotLength {
		out = append(out, Window{Start: s, End: s + g.SlotLength})
	}
	return out
}

// CheckWindow enforces end > start, opening bounds and resolution.
func (g Grid) CheckWindow(w Window) error {
	switch {
	case w.End <= w.Start:
		return validationError(CodeInvalidTimeRange, "end %s must be after start %s", w.End, w.Start)
	case w.Start < g.Open || w.End > g.Close:
		return validationError(CodeInvalidTimeRange, "%s is outside opening hours %s-%s", w, g.Open, g.Close)
	case !g.onResolution(w.Start) || !g.onResolution(w.End):
		return validationError(CodeInvalidTimeRange, "%s is not on the %d minute grid", w, int(g.Resolution))
	}
	return nil
}

type Slot struct {
	Start     Minute `json:"start"`
	End       Minute `json:"end"`
	Available bool   `json:"available"`
}

// GenerateSlots marks each grid slot for court on date. now carries the
// club's location. A slot today is open only when its start hour is after
// the current hour.
func GenerateSlots(court Court, date Date, grid Grid, active []Window, now time.Time) []Slot {
	today := DateOf(now)
	windows := grid.Windows()
	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		available := court.Enabled && !date.Before(today)
		if available && date == today && w.Start.Hour() <= now.Hour() {
			available = false
		}
		if available {
			for _, taken := range active {
				if w.Overlaps(taken) {
					available = false
					break
				}
			}
		}
		slots = append(slots, Slot{Start: w.Start, End: w.End, Available: available})
	}
	return slots
}
