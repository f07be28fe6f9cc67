package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/db"
	"github.com/codr1/Courtbook/internal/keylock"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Options struct {
	Grid     Grid
	Policy   CancellationPolicy
	Location *time.Location
	// Now defaults to time.Now.
	Now         func() time.Time
	PageSize    int
	MaxPageSize int
}

// Service runs each boundary operation as one locked, transactional unit.
type Service struct {
	db     *db.DB
	locker keylock.Locker
	grid   Grid
	policy CancellationPolicy
	loc    *time.Location
	clock  func() time.Time

	pageSize    int
	maxPageSize int
}

func NewService(database *db.DB, locker keylock.Locker, opts Options) *Service {
	s := &Service{
		db:          database,
		locker:      locker,
		grid:        opts.Grid,
		policy:      opts.Policy,
		loc:         opts.Location,
		clock:       opts.Now,
		pageSize:    opts.PageSize,
		maxPageSize: opts.MaxPageSize,
	}
	if s.grid == (Grid{}) {
		s.grid = DefaultGrid()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.pageSize <= 0 {
		s.pageSize = defaultPageSize
	}
	if s.maxPageSize <= 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

func (s *Service) Grid() Grid { return s.grid }

func (s *Service) Location() *time.Location { return s.loc }

// Now is the current instant in the club's location.
func (s *Service) Now() time.Time { return s.clock().In(s.loc) }

// Today is the club's current calendar day.
func (s *Service) Today() Date { return DateOf(s.Now()) }

func (s *Service) Store() *Store { return NewStore(s.db) }

func (s *Service) Catalog() *Catalog { return NewCatalog(s.db) }

// inTx runs fn in an immediate transaction with tx-bound store and catalog.
func (s *Service) inTx(ctx context.Context, fn func(store *Store, catalog *Catalog) error) error {
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		return fn(NewStore(tx), NewCatalog(tx))
	})
	if err != nil && db.IsBusy(err) {
		return busy()
	}
	return err
}

func (s *Service) lock(ctx context.Context, keys ...string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, keys...)
	if errors.Is(err, keylock.ErrBusy) {
		log.Ctx(ctx).Warn().Strs("lock_keys", keys).Msg("Lock wait exceeded")
		return nil, busy()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire locks: %w", err)
	}
	return unlock, nil
}

func courtDayKey(courtID int64, d Date) string {
	return fmt.Sprintf("court:%d:%s", courtID, d)
}

func ownerDayKey(ownerID int64, d Date) string {
	return fmt.Sprintf("owner:%d:%s", ownerID, d)
}

func reservationKey(id int64) string {
	return fmt.Sprintf("reservation:%d", id)
}

func requireAdmin(actor Actor) error {
	if !actor.Admin {
		return forbidden("administrator access required")
	}
	return nil
}

// Courts

func (s *Service) ListCourts(ctx context.Context, actor Actor, modality string) ([]Court, error) {
	return s.Catalog().List(ctx, actor.Admin, modality)
}

func (s *Service) ListModalities(ctx context.Context, actor Actor) ([]string, error) {
	return s.Catalog().Modalities(ctx, actor.Admin)
}

// GetCourt hides disabled courts from members.
func (s *Service) GetCourt(ctx context.Context, actor Actor, id int64) (Court, error) {
	court, err := s.Catalog().Get(ctx, id)
	if err != nil {
		return Court{}, err
	}
	if !court.Enabled && !actor.Admin {
		return Court{}, courtNotFound(id)
	}
	return court, nil
}

func (s *Service) CreateCourt(ctx context.Context, actor Actor, in CourtInput) (Court, error) {
	if err := requireAdmin(actor); err != nil {
		return Court{}, err
	}
	var court Court
	err := s.inTx(ctx, func(_ *Store, catalog *Catalog) error {
		var err error
		court, err = catalog.Create(ctx, in, s.clock().UTC())
		return err
	})
	if err != nil {
		return Court{}, err
	}
	log.Ctx(ctx).Info().Int64("court_id", court.ID).Str("court_name", court.Name).Msg("Court created")
	return court, nil
}

func (s *Service) UpdateCourt(ctx context.Context, actor Actor, id int64, in CourtInput) (Court, error) {
	if err := requireAdmin(actor); err != nil {
		return Court{}, err
	}
	var court Court
	err := s.inTx(ctx, func(_ *Store, catalog *Catalog) error {
		var err error
		court, err = catalog.Update(ctx, id, in, s.clock().UTC())
		return err
	})
	if err != nil {
		return Court{}, err
	}
	log.Ctx(ctx).Info().Int64("court_id", court.ID).Msg("Court updated")
	return court, nil
}

func (s *Service) SetCourtEnabled(ctx context.Context, actor Actor, id int64, enabled bool) (Court, error) {
	if err := requireAdmin(actor); err != nil {
		return Court{}, err
	}
	var court Court
	err := s.inTx(ctx, func(_ *Store, catalog *Catalog) error {
		var err error
		court, err = catalog.SetEnabled(ctx, id, enabled, s.clock().UTC())
		return err
	})
	if err != nil {
		return Court{}, err
	}
	log.Ctx(ctx).Info().Int64("court_id", id).Bool("enabled", enabled).Msg("Court availability changed")
	return court, nil
}

// DeleteCourt removes a court that has no ACTIVE reservations from today on.
func (s *Service) DeleteCourt(ctx context.Context, actor Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	today := s.Today()
	err := s.inTx(ctx, func(store *Store, catalog *Catalog) error {
		if _, err := catalog.Get(ctx, id); err != nil {
			return err
		}
		if err := (DeletionGuard{Counter: store}).Check(ctx, id, today); err != nil {
			return err
		}
		return catalog.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Int64("court_id", id).Msg("Court deleted")
	return nil
}

// Slots

func (s *Service) ListSlots(ctx context.Context, actor Actor, courtID int64, date Date) ([]Slot, error) {
	court, err := s.GetCourt(ctx, actor, courtID)
	if err != nil {
		return nil, err
	}
	active, err := s.Store().ActiveWindows(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(court, date, s.grid, active, s.Now()), nil
}

// Reservations

type ReservationRequest struct {
	CourtID int64
	Date    Date
	Window  Window
	Guests  []string
}

func (s *Service) CreateReservation(ctx context.Context, actor Actor, req ReservationRequest) (Reservation, error) {
	logger := log.Ctx(ctx).With().
		Int64("court_id", req.CourtID).
		Int64("owner_id", actor.ID).
		Str("date", req.Date.String()).
		Str("window", req.Window.String()).
		Logger()

	guests := NormalizeGuests(req.Guests)
	unlock, err := s.lock(ctx, courtDayKey(req.CourtID, req.Date), ownerDayKey(actor.ID, req.Date))
	if err != nil {
		return Reservation{}, err
	}
	defer unlock()

	var created Reservation
	err = s.inTx(ctx, func(store *Store, catalog *Catalog) error {
		court, err := catalog.Lookup(ctx, req.CourtID)
		if err != nil {
			return err
		}
		candidate := Candidate{
			OwnerID: actor.ID,
			CourtID: req.CourtID,
			Date:    req.Date,
			Window:  req.Window,
			Guests:  guests,
		}
		snap, err := store.Snapshot(ctx, candidate)
		if err != nil {
			return err
		}
		if err := Validate(candidate, court, snap, s.grid, s.Now()); err != nil {
			return err
		}
		created, err = store.Create(ctx, *court, Reservation{
			OwnerID:    actor.ID,
			OwnerName:  actor.Name,
			OwnerEmail: actor.Email,
			Date:       req.Date,
			Start:      req.Window.Start,
			End:        req.Window.End,
			Guests:     guests,
		}, s.clock().UTC())
		return err
	})
	if err != nil {
		logRejection(logger, err, "Reservation rejected")
		return Reservation{}, err
	}
	logger.Info().Int64("reservation_id", created.ID).Msg("Reservation created")
	return created, nil
}

func (s *Service) GetReservation(ctx context.Context, actor Actor, id int64) (Reservation, error) {
	r, err := s.Store().GetByID(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if err := CheckView(r, actor); err != nil {
		log.Ctx(ctx).Warn().Int64("reservation_id", id).Int64("user_id", actor.ID).Msg("Reservation access denied")
		return Reservation{}, err
	}
	return r, nil
}

// UpdateReservation changes the window and guests of a future ACTIVE
// reservation. Court and date are fixed.
func (s *Service) UpdateReservation(ctx context.Context, actor Actor, id int64, w Window, guests []string) (Reservation, error) {
	current, err := s.GetReservation(ctx, actor, id)
	if err != nil {
		return Reservation{}, err
	}
	logger := log.Ctx(ctx).With().
		Int64("reservation_id", id).
		Int64("court_id", current.CourtID).
		Int64("owner_id", current.OwnerID).
		Str("window", w.String()).
		Logger()

	guests = NormalizeGuests(guests)
	unlock, err := s.lock(ctx,
		reservationKey(id),
		courtDayKey(current.CourtID, current.Date),
		ownerDayKey(current.OwnerID, current.Date),
	)
	if err != nil {
		return Reservation{}, err
	}
	defer unlock()

	var updated Reservation
	err = s.inTx(ctx, func(store *Store, catalog *Catalog) error {
		r, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := CheckEdit(r, actor, now); err != nil {
			return err
		}
		court, err := catalog.Lookup(ctx, r.CourtID)
		if err != nil {
			return err
		}
		candidate := Candidate{
			ReservationID: r.ID,
			OwnerID:       r.OwnerID,
			CourtID:       r.CourtID,
			Date:          r.Date,
			Window:        w,
			Guests:        guests,
		}
		snap, err := store.Snapshot(ctx, candidate)
		if err != nil {
			return err
		}
		if err := Validate(candidate, court, snap, s.grid, now); err != nil {
			return err
		}
		updated, err = store.Update(ctx, id, w, guests, s.clock().UTC())
		return err
	})
	if err != nil {
		logRejection(logger, err, "Reservation update rejected")
		return Reservation{}, err
	}
	logger.Info().Msg("Reservation updated")
	return updated, nil
}

func (s *Service) ListReservationsByOwner(ctx context.Context, actor Actor) ([]Reservation, error) {
	return s.Store().ListByOwner(ctx, actor.ID)
}

// NormalizePage applies the default and maximum page size.
func (s *Service) NormalizePage(p PageRequest) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = s.pageSize
	}
	if p.Size > s.maxPageSize {
		p.Size = s.maxPageSize
	}
	return p
}

func (s *Service) ListReservationsAdmin(ctx context.Context, actor Actor, f Filter, p PageRequest) (Page, error) {
	if err := requireAdmin(actor); err != nil {
		return Page{}, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return Page{}, validationError(CodeInvalidTimeRange, "date range ends before it starts")
	}
	return s.Store().ListAll(ctx, f, s.NormalizePage(p), s.Now())
}

func (s *Service) CancelAsOwner(ctx context.Context, actor Actor, id int64) (Reservation, error) {
	return s.cancel(ctx, id, func(r Reservation, now time.Time) (CancelledBy, string, error) {
		return CancelledByOwner, "", s.policy.CheckOwner(r, actor, now)
	})
}

func (s *Service) CancelAsAdmin(ctx context.Context, actor Actor, id int64, reason string) (Reservation, error) {
	if err := requireAdmin(actor); err != nil {
		return Reservation{}, err
	}
	return s.cancel(ctx, id, func(r Reservation, now time.Time) (CancelledBy, string, error) {
		trimmed, err := s.policy.CheckAdmin(r, actor, reason, now)
		return CancelledByAdmin, trimmed, err
	})
}

type cancelCheck func(r Reservation, now time.Time) (CancelledBy, string, error)

func (s *Service) cancel(ctx context.Context, id int64, check cancelCheck) (Reservation, error) {
	logger := log.Ctx(ctx).With().Int64("reservation_id", id).Logger()

	unlock, err := s.lock(ctx, reservationKey(id))
	if err != nil {
		return Reservation{}, err
	}
	defer unlock()

	var cancelled Reservation
	err = s.inTx(ctx, func(store *Store, _ *Catalog) error {
		r, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		by, reason, err := check(r, s.Now())
		if err != nil {
			return err
		}
		if err := store.MarkCancelled(ctx, id, by, reason, s.clock().UTC()); err != nil {
			return err
		}
		cancelled, err = store.GetByID(ctx, id)
		return err
	})
	if err != nil {
		logRejection(logger, err, "Cancellation rejected")
		return Reservation{}, err
	}
	logger.Info().Str("cancelled_by", string(cancelled.CancelledBy)).Msg("Reservation cancelled")
	return cancelled, nil
}

// logRejection logs rule failures at debug, denials at warn and anything
// else at error.
func logRejection(logger zerolog.Logger, err error, msg string) {
	e, ok := AsError(err)
	switch {
	case !ok:
		logger.Error().Err(err).Msg(msg)
	case e.Kind == KindForbidden:
		logger.Warn().Str("code", string(e.Code)).Msg(msg)
	case e.Kind == KindBusy:
		logger.Warn().Str("code", string(e.Code)).Msg(msg)
	default:
		logger.Debug().Str("code", string(e.Code)).Msg(msg)
	}
}
