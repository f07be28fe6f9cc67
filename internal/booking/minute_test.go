package booking

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Minute
		wantErr bool
	}{
		{"06:00", 360, false},
		{"10:30", 630, false},
		{"24:00", 1440, false},
		{"00:00", 0, false},
		{"24:30", 0, true},
		{"10:60", 0, true},
		{"1030", 0, true},
		{"10.5", 0, true},
		{"ab:cd", 0, true},
		{"+6:00", 0, true},
		{"-1:00", 0, true},
		{"06:+5", 0, true},
		{" 6:00", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("Minute(%d).String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}

func TestMinuteJSON(t *testing.T) {
	var w Window
	if err := json.Unmarshal([]byte(`{"start":"10:30","end":"11:30"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Start != 630 || w.End != 690 {
		t.Fatalf("window = %+v", w)
	}
	if err := json.Unmarshal([]byte(`{"start":10.5}`), &w); err == nil {
		t.Fatalf("decimal hours must be rejected")
	}
	b, _ := json.Marshal(w)
	if string(b) != `{"start":"10:30","end":"11:30"}` {
		t.Fatalf("marshal = %s", b)
	}
}

func TestDate(t *testing.T) {
	d := MustDate("2024-01-15")
	if d.String() != "2024-01-15" {
		t.Fatalf("String = %s", d)
	}
	if !d.Before(MustDate("2024-02-01")) || !d.After(MustDate("2023-12-31")) {
		t.Fatalf("ordering broken")
	}
	if got := d.AddDays(17); got != MustDate("2024-02-01") {
		t.Fatalf("AddDays = %s", got)
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}

	loc := time.FixedZone("BRT", -3*60*60)
	at := d.At(MustClock("10:30"), loc)
	if at.Hour() != 10 || at.Minute() != 30 || at.Location() != loc {
		t.Fatalf("At = %s", at)
	}
	if DateOf(time.Date(2024, 1, 15, 23, 59, 0, 0, loc)) != d {
		t.Fatalf("DateOf lost the civil day")
	}
}

func TestWindowOverlaps(t *testing.T) {
	a := Window{Start: MustClock("10:00"), End: MustClock("11:00")}
	tests := []struct {
		b    Window
		want bool
	}{
		{Window{MustClock("10:30"), MustClock("11:30")}, true},
		{Window{MustClock("09:00"), MustClock("10:00")}, false},
		{Window{MustClock("11:00"), MustClock("12:00")}, false},
		{Window{MustClock("09:30"), MustClock("12:00")}, true},
		{Window{MustClock("10:00"), MustClock("11:00")}, true},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s overlaps %s = %v, want %v", a, tt.b, got, tt.want)
		}
		if got := tt.b.Overlaps(a); got != tt.want {
			t.Errorf("overlap is not symmetric for %s", tt.b)
		}
	}
}

func TestNormalizeGuestsAndModalityKey(t *testing.T) {
	got := NormalizeGuests([]string{"  joão   da silva ", "MARIA", ""})
	want := []string{"João Da Silva", "Maria", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeGuests[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if ModalityKey(" Futebol ") != ModalityKey("FUTEBOL") {
		t.Fatalf("modality keys differ by case")
	}
	if ModalityKey("Beach  Tennis") != ModalityKey("beach tennis") {
		t.Fatalf("modality keys differ by spacing")
	}
}
