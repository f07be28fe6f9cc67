package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/codr1/Courtbook/internal/db"
	dbgen "github.com/codr1/Courtbook/internal/db/generated"
)

// StatusFilter selects reservations by status in admin listings.
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterActive    StatusFilter = "active"
	StatusFilterCancelled StatusFilter = "cancelled"
)

// Filter narrows the admin reservation listing. Zero values match everything.
type Filter struct {
	OwnerName string
	CourtName string
	From      Date
	To        Date
	Status    StatusFilter
	// Upcoming keeps reservations whose start instant is after now.
	Upcoming bool
}

type PageRequest struct {
	Page int
	Size int
}

type Page struct {
	Items         []Reservation `json:"items"`
	TotalElements int64         `json:"total_elements"`
	TotalPages    int           `json:"total_pages"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	First         bool          `json:"first"`
	Last          bool          `json:"last"`
}

// Store persists reservations. A Store built inside RunInTx is bound to
// that transaction.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Create(ctx context.Context, court Court, r Reservation, at time.Time) (Reservation, error) {
	guests, err := encodeGuests(r.Guests)
	if err != nil {
		return Reservation{}, err
	}
	row, err := s.db.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
		CourtID:          court.ID,
		CourtNumber:      int64(court.Number),
		CourtModality:    court.Modality,
		CourtModalityKey: court.ModalityKey,
		CourtName:        court.Name,
		OwnerID:          r.OwnerID,
		OwnerName:        r.OwnerName,
		OwnerEmail:       r.OwnerEmail,
		ReservationDate:  r.Date.String(),
		StartMinute:      int64(r.Start),
		EndMinute:        int64(r.End),
		GuestNames:       guests,
		CreatedAt:        at,
		UpdatedAt:        at,
	})
	if err != nil {
		return Reservation{}, storeError("create reservation", err)
	}
	return reservationFromRow(row)
}

func (s *Store) GetByID(ctx context.Context, id int64) (Reservation, error) {
	row, err := s.db.Queries.GetReservation(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, reservationNotFound(id)
	}
	if err != nil {
		return Reservation{}, storeError("get reservation", err)
	}
	return reservationFromRow(row)
}

// ListByOwner returns every reservation of ownerID, newest date first.
func (s *Store) ListByOwner(ctx context.Context, ownerID int64) ([]Reservation, error) {
	rows, err := s.db.Queries.ListReservationsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list owner reservations", err)
	}
	return reservationsFromRows(rows)
}

// ListAll pages through reservations ordered date, start and id descending.
// page must already be normalized.
func (s *Store) ListAll(ctx context.Context, f Filter, page PageRequest, now time.Time) (Page, error) {
	params := dbgen.CountReservationsParams{
		OwnerName:    f.OwnerName,
		CourtName:    f.CourtName,
		UpcomingOnly: f.Upcoming,
		Today:        DateOf(now).String(),
		NowMinute:    int64(now.Hour()*60 + now.Minute()),
	}
	if !f.From.IsZero() {
		params.DateFrom = f.From.String()
	}
	if !f.To.IsZero() {
		params.DateTo = f.To.String()
	}
	switch f.Status {
	case StatusFilterActive:
		params.Status = string(StatusActive)
	case StatusFilterCancelled:
		params.Status = string(StatusCancelled)
	}

	total, err := s.db.Queries.CountReservations(ctx, params)
	if err != nil {
		return Page{}, storeError("count reservations", err)
	}
	rows, err := s.db.Queries.ListReservations(ctx, dbgen.ListReservationsParams{
		OwnerName:    params.OwnerName,
		CourtName:    params.CourtName,
		DateFrom:     params.DateFrom,
		DateTo:       params.DateTo,
		Status:       params.Status,
		UpcomingOnly: params.UpcomingOnly,
		Today:        params.Today,
		NowMinute:    params.NowMinute,
		Limit:        int64(page.Size),
		Offset:       int64(page.Page) * int64(page.Size),
	})
	if err != nil {
		return Page{}, storeError("list reservations", err)
	}
	items, err := reservationsFromRows(rows)
	if err != nil {
		return Page{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(page.Size)))
	return Page{
		Items:         items,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          page.Page,
		Size:          page.Size,
		First:         page.Page == 0,
		Last:          page.Page >= totalPages-1,
	}, nil
}

// Update replaces the window and guests of an ACTIVE reservation.
func (s *Store) Update(ctx context.Context, id int64, w Window, guests []string, at time.Time) (Reservation, error) {
	encoded, err := encodeGuests(guests)
	if err != nil {
		return Reservation{}, err
	}
	row, err := s.db.Queries.UpdateReservationWindow(ctx, dbgen.UpdateReservationWindowParams{
		StartMinute: int64(w.Start),
		EndMinute:   int64(w.End),
		GuestNames:  encoded,
		UpdatedAt:   at,
		ID:          id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, conflictError(CodeNotEditable, "reservation %d can no longer be changed", id)
	}
	if err != nil {
		return Reservation{}, storeError("update reservation", err)
	}
	return reservationFromRow(row)
}

// MarkCancelled moves an ACTIVE reservation to CANCELLED. A row that is no
// longer ACTIVE is left untouched.
func (s *Store) MarkCancelled(ctx context.Context, id int64, by CancelledBy, reason string, at time.Time) error {
	n, err := s.db.Queries.CancelReservation(ctx, dbgen.CancelReservationParams{
		CancelledBy:        string(by),
		CancellationReason: sql.NullString{String: reason, Valid: reason != ""},
		CancelledAt:        sql.NullTime{Time: at, Valid: true},
		UpdatedAt:          at,
		ID:                 id,
	})
	if err != nil {
		return storeError("cancel reservation", err)
	}
	if n == 0 {
		return conflictError(CodeAlreadyCancelled, "reservation %d is already cancelled", id)
	}
	return nil
}

// Snapshot loads the ACTIVE reservations a candidate is checked against.
func (s *Store) Snapshot(ctx context.Context, c Candidate) (Snapshot, error) {
	date := c.Date.String()
	courtRows, err := s.db.Queries.ListActiveCourtDayReservations(ctx, dbgen.ListActiveCourtDayReservationsParams{
		CourtID:         c.CourtID,
		ReservationDate: date,
		ExcludeID:       c.ReservationID,
	})
	if err != nil {
		return Snapshot{}, storeError("load court day", err)
	}
	ownerRows, err := s.db.Queries.ListActiveOwnerDayReservations(ctx, dbgen.ListActiveOwnerDayReservationsParams{
		OwnerID:         c.OwnerID,
		ReservationDate: date,
		ExcludeID:       c.ReservationID,
	})
	if err != nil {
		return Snapshot{}, storeError("load owner day", err)
	}

	var snap Snapshot
	for _, r := range courtRows {
		snap.CourtDay = append(snap.CourtDay, Booked{
			ReservationID: r.ID,
			Window:        Window{Start: Minute(r.StartMinute), End: Minute(r.EndMinute)},
		})
	}
	for _, r := range ownerRows {
		snap.OwnerDay = append(snap.OwnerDay, OwnerBooking{
			ReservationID: r.ID,
			CourtID:       r.CourtID,
			ModalityKey:   r.ModalityKey,
			Window:        Window{Start: Minute(r.StartMinute), End: Minute(r.EndMinute)},
		})
	}
	return snap, nil
}

// ActiveWindows lists the booked windows on a court and date.
func (s *Store) ActiveWindows(ctx context.Context, courtID int64, date Date) ([]Window, error) {
	rows, err := s.db.Queries.ListActiveCourtDayReservations(ctx, dbgen.ListActiveCourtDayReservationsParams{
		CourtID:         courtID,
		ReservationDate: date.String(),
	})
	if err != nil {
		return nil, storeError("load court day", err)
	}
	out := make([]Window, 0, len(rows))
	for _, r := range rows {
		out = append(out, Window{Start: Minute(r.StartMinute), End: Minute(r.EndMinute)})
	}
	return out, nil
}

func (s *Store) CountBlocking(ctx context.Context, courtID int64, from Date) (int64, error) {
	n, err := s.db.Queries.CountBlockingReservations(ctx, dbgen.CountBlockingReservationsParams{
		CourtID:         courtID,
		ReservationDate: from.String(),
	})
	if err != nil {
		return 0, storeError("count blocking reservations", err)
	}
	return n, nil
}

// ListRemindable returns ACTIVE reservations on dates from..to that have an
// owner email and no reminder yet.
func (s *Store) ListRemindable(ctx context.Context, from, to Date) ([]Reservation, error) {
	rows, err := s.db.Queries.ListRemindableReservations(ctx, dbgen.ListRemindableReservationsParams{
		FromDate: from.String(),
		ToDate:   to.String(),
	})
	if err != nil {
		return nil, storeError("list remindable reservations", err)
	}
	return reservationsFromRows(rows)
}

func (s *Store) MarkReminderSent(ctx context.Context, id int64, at time.Time) error {
	err := s.db.Queries.MarkReminderSent(ctx, dbgen.MarkReminderSentParams{
		ReminderSentAt: sql.NullTime{Time: at, Valid: true},
		ID:             id,
	})
	if err != nil {
		return storeError("mark reminder sent", err)
	}
	return nil
}

// storeError maps SQLite lock contention to Busy and wraps everything else.
func storeError(op string, err error) error {
	if db.IsBusy(err) {
		return busy()
	}
	return fmt.Errorf("%s: %w", op, err)
}

func encodeGuests(guests []string) (string, error) {
	if guests == nil {
		guests = []string{}
	}
	b, err := json.Marshal(guests)
	if err != nil {
		return "", fmt.Errorf("encode guest names: %w", err)
	}
	return string(b), nil
}

func reservationFromRow(row dbgen.Reservation) (Reservation, error) {
	date, err := ParseDate(row.ReservationDate)
	if err != nil {
		return Reservation{}, fmt.Errorf("reservation %d: %w", row.ID, err)
	}
	guests := []string{}
	if row.GuestNames != "" {
		if err := json.Unmarshal([]byte(row.GuestNames), &guests); err != nil {
			return Reservation{}, fmt.Errorf("reservation %d guest names: %w", row.ID, err)
		}
	}
	r := Reservation{
		ID:                 row.ID,
		CourtID:            row.CourtID,
		CourtNumber:        int(row.CourtNumber),
		CourtModality:      row.CourtModality,
		CourtModalityKey:   row.CourtModalityKey,
		CourtName:          row.CourtName,
		OwnerID:            row.OwnerID,
		OwnerName:          row.OwnerName,
		OwnerEmail:         row.OwnerEmail,
		Date:               date,
		Start:              Minute(row.StartMinute),
		End:                Minute(row.EndMinute),
		Guests:             guests,
		Status:             Status(row.Status),
		CancelledBy:        CancelledBy(row.CancelledBy),
		CancellationReason: row.CancellationReason.String,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.CancelledAt.Valid {
		t := row.CancelledAt.Time
		r.CancelledAt = &t
	}
	if row.ReminderSentAt.Valid {
		t := row.ReminderSentAt.Time
		r.ReminderSentAt = &t
	}
	return r, nil
}

func reservationsFromRows(rows []dbgen.Reservation) ([]Reservation, error) {
	out := make([]Reservation, 0, len(rows))
	for _, row := range rows {
		r, err := reservationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
