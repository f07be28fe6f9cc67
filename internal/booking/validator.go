package booking

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Candidate is a booking or edit under validation. ReservationID is zero
// for a new booking.
type Candidate struct {
	ReservationID int64
	OwnerID       int64
	CourtID       int64
	Date          Date
	Window        Window
	Guests        []string
}

// Booked is an ACTIVE reservation on the candidate's court and date.
type Booked struct {
	ReservationID int64
	Window        Window
}

// OwnerBooking is an ACTIVE reservation by the candidate's owner on the
// candidate's date. ModalityKey is the court's current modality, or the
// denormalized one when the court is gone.
type OwnerBooking struct {
	ReservationID int64
	CourtID       int64
	ModalityKey   string
	Window        Window
}

// Snapshot is the store state a candidate is checked against.
type Snapshot struct {
	CourtDay []Booked
	OwnerDay []OwnerBooking
}

// Validate applies the booking rules in order and returns the first failure.
// court is nil when the court does not exist. now carries the club's location.
func Validate(c Candidate, court *Court, snap Snapshot, grid Grid, now time.Time) error {
	if court == nil {
		return courtNotFound(c.CourtID)
	}
	if !court.Enabled {
		return conflictError(CodeCourtDisabled, "%s is not accepting bookings", court.Name)
	}

	// 1. time range
	if err := grid.CheckWindow(c.Window); err != nil {
		return err
	}
	if !c.Date.At(c.Window.Start, now.Location()).After(now) {
		return validationError(CodeStartInPast, "%s %s has already started", c.Date, c.Window.Start)
	}

	// 2. overlap on the court
	for _, b := range snap.CourtDay {
		if c.ReservationID != 0 && b.ReservationID == c.ReservationID {
			continue
		}
		if c.Window.Overlaps(b.Window) {
			return conflictError(CodeSlotTaken, "%s overlaps an existing reservation %s", c.Window, b.Window)
		}
	}

	// 3. one booking per court per day
	for _, o := range snap.OwnerDay {
		if c.ReservationID != 0 && o.ReservationID == c.ReservationID {
			continue
		}
		if o.CourtID == c.CourtID {
			return conflictError(CodeDuplicateCourtSameDay, "you already have a reservation on this court on %s", c.Date)
		}
	}

	// 4. one booking per modality per day
	for _, o := range snap.OwnerDay {
		if c.ReservationID != 0 && o.ReservationID == c.ReservationID {
			continue
		}
		if o.ModalityKey == court.ModalityKey {
			return conflictError(CodeDuplicateModalitySameDay, "you already have a %s reservation on %s", court.Modality, c.Date)
		}
	}

	// 5. guests
	return checkGuests(c.Guests, court.Capacity)
}

func checkGuests(guests []string, capacity int) error {
	if limit := capacity - 1; len(guests) > limit {
		return validationError(CodeGuestListInvalid, "at most %d guest(s) allowed on this court", limit)
	}
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(guests))
	for _, g := range guests {
		name := strings.TrimSpace(g)
		if name == "" {
			return validationError(CodeGuestListInvalid, "guest names must not be empty")
		}
		key := fold.String(collapseSpace(name))
		if _, dup := seen[key]; dup {
			return validationError(CodeGuestListInvalid, "guest %q is listed twice", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
