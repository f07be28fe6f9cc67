package booking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Minute is a time of day as minutes since midnight. 24:00 is a valid upper bound.
type Minute int

const endOfDay Minute = 24 * 60

// ParseClock parses "HH:MM".
func ParseClock(s string) (Minute, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if m > 59 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	v := Minute(h*60 + m)
	if v > endOfDay {
		return 0, fmt.Errorf("invalid time %q, past 24:00", s)
	}
	return v, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func MustClock(s string) Minute {
	m, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Hour is the wall-clock hour the minute falls in.
func (m Minute) Hour() int { return int(m) / 60 }

func (m Minute) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Minute) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be an \"HH:MM\" string")
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Date is a civil calendar day with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool { return d == Date{} }

// At returns the instant of minute m on day d in loc.
func (d Date) At(m Minute, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, int(m), 0, 0, loc)
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a \"YYYY-MM-DD\" string")
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Window is a half-open interval [Start, End) within one day.
type Window struct {
	Start Minute `json:"start"`
	End   Minute `json:"end"`
}

// Overlaps reports !(a.end <= b.start || a.start >= b.end).
func (w Window) Overlaps(o Window) bool {
	return !(w.End <= o.Start || w.Start >= o.End)
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
