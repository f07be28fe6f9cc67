// Package booking is the court reservation engine: slot generation, rule
// validation, cancellation policy and the transactional store behind them.
package booking

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
)

type CancelledBy string

const (
	CancelledByNone  CancelledBy = "NONE"
	CancelledByOwner CancelledBy = "OWNER"
	CancelledByAdmin CancelledBy = "ADMIN"
)

// Phase is the display state derived from status and date.
type Phase string

const (
	PhaseCancelled Phase = "CANCELLED"
	PhaseCompleted Phase = "COMPLETED"
	PhaseToday     Phase = "TODAY"
	PhaseConfirmed Phase = "CONFIRMED"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    int64
	Name  string
	Email string
	Admin bool
}

type Court struct {
	ID          int64     `json:"id"`
	Number      int       `json:"number"`
	Name        string    `json:"name"`
	Modality    string    `json:"modality"`
	ModalityKey string    `json:"-"`
	Capacity    int       `json:"capacity"`
	ImageRef    string    `json:"image_ref,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourtName is the display name stored on reservations.
func CourtName(number int, modality string) string {
	return fmt.Sprintf("Quadra %d - %s", number, modality)
}

type Reservation struct {
	ID                 int64       `json:"id"`
	CourtID            int64       `json:"court_id"`
	CourtNumber        int         `json:"court_number"`
	CourtModality      string      `json:"court_modality"`
	CourtModalityKey   string      `json:"-"`
	CourtName          string      `json:"court_name"`
	OwnerID            int64       `json:"owner_id"`
	OwnerName          string      `json:"owner_name"`
	OwnerEmail         string      `json:"-"`
	Date               Date        `json:"date"`
	Start              Minute      `json:"start"`
	End                Minute      `json:"end"`
	Guests             []string    `json:"guest_names"`
	Status             Status      `json:"status"`
	CancelledBy        CancelledBy `json:"cancelled_by"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	ReminderSentAt     *time.Time  `json:"-"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (r Reservation) Window() Window {
	return Window{Start: r.Start, End: r.End}
}

// StartsAt is the start instant in loc.
func (r Reservation) StartsAt(loc *time.Location) time.Time {
	return r.Date.At(r.Start, loc)
}

func (r Reservation) Active() bool { return r.Status == StatusActive }

func (r Reservation) Phase(today Date) Phase {
	switch {
	case r.Status == StatusCancelled:
		return PhaseCancelled
	case r.Date.Before(today):
		return PhaseCompleted
	case r.Date == today:
		return PhaseToday
	}
	return PhaseConfirmed
}

// ModalityKey folds a modality for case-insensitive comparison.
func ModalityKey(modality string) string {
	return cases.Fold().String(collapseSpace(modality))
}

// NormalizeModality trims and collapses whitespace, keeping the given casing.
func NormalizeModality(modality string) string {
	return collapseSpace(modality)
}

// NormalizeGuests trims, collapses whitespace and title-cases each name.
// Empty names are kept so the validator can reject them.
func NormalizeGuests(names []string) []string {
	// Casers carry state and are not shared between goroutines.
	title := cases.Title(language.BrazilianPortuguese)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = title.String(collapseSpace(n))
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
