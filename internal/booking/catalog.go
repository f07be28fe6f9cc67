package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/codr1/Courtbook/internal/db"
	dbgen "github.com/codr1/Courtbook/internal/db/generated"
)

// CourtInput carries the admin-editable court fields.
type CourtInput struct {
	Number   int
	Modality string
	Capacity int
	ImageRef string
}

func (in CourtInput) normalized() (CourtInput, error) {
	in.Modality = NormalizeModality(in.Modality)
	in.ImageRef = strings.TrimSpace(in.ImageRef)
	switch {
	case in.Number <= 0:
		return in, validationError(CodeInvalidCourt, "court number must be positive")
	case in.Modality == "":
		return in, validationError(CodeInvalidCourt, "modality is required")
	case in.Capacity < 1:
		return in, validationError(CodeInvalidCourt, "capacity must be at least 1")
	}
	return in, nil
}

// Catalog owns court records.
type Catalog struct {
	db *db.DB
}

func NewCatalog(database *db.DB) *Catalog {
	return &Catalog{db: database}
}

func (c *Catalog) Get(ctx context.Context, id int64) (Court, error) {
	row, err := c.db.Queries.GetCourt(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Court{}, courtNotFound(id)
	}
	if err != nil {
		return Court{}, storeError("get court", err)
	}
	return courtFromRow(row), nil
}

// Lookup is Get with a nil court instead of NotFound.
func (c *Catalog) Lookup(ctx context.Context, id int64) (*Court, error) {
	court, err := c.Get(ctx, id)
	if IsCode(err, CodeCourtNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &court, nil
}

// List returns courts ordered by modality then number. modality filters
// case-insensitively when set.
func (c *Catalog) List(ctx context.Context, includeDisabled bool, modality string) ([]Court, error) {
	key := ""
	if strings.TrimSpace(modality) != "" {
		key = ModalityKey(modality)
	}
	rows, err := c.db.Queries.ListCourts(ctx, dbgen.ListCourtsParams{
		IncludeDisabled: includeDisabled,
		ModalityKey:     key,
	})
	if err != nil {
		return nil, storeError("list courts", err)
	}
	out := make([]Court, 0, len(rows))
	for _, row := range rows {
		out = append(out, courtFromRow(row))
	}
	return out, nil
}

func (c *Catalog) Modalities(ctx context.Context, includeDisabled bool) ([]string, error) {
	mods, err := c.db.Queries.ListModalities(ctx, includeDisabled)
	if err != nil {
		return nil, storeError("list modalities", err)
	}
	if mods == nil {
		mods = []string{}
	}
	return mods, nil
}

func (c *Catalog) Create(ctx context.Context, in CourtInput, at time.Time) (Court, error) {
	in, err := in.normalized()
	if err != nil {
		return Court{}, err
	}
	key := ModalityKey(in.Modality)
	if err := c.checkNumberFree(ctx, in.Number, key, 0); err != nil {
		return Court{}, err
	}
	row, err := c.db.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		CourtNumber: int64(in.Number),
		Modality:    in.Modality,
		ModalityKey: key,
		Capacity:    int64(in.Capacity),
		ImageRef:    nullString(in.ImageRef),
		Enabled:     true,
		CreatedAt:   at,
		UpdatedAt:   at,
	})
	if err != nil {
		return Court{}, courtWriteError("create court", in, err)
	}
	return courtFromRow(row), nil
}

func (c *Catalog) Update(ctx context.Context, id int64, in CourtInput, at time.Time) (Court, error) {
	in, err := in.normalized()
	if err != nil {
		return Court{}, err
	}
	if _, err := c.Get(ctx, id); err != nil {
		return Court{}, err
	}
	key := ModalityKey(in.Modality)
	if err := c.checkNumberFree(ctx, in.Number, key, id); err != nil {
		return Court{}, err
	}
	row, err := c.db.Queries.UpdateCourt(ctx, dbgen.UpdateCourtParams{
		CourtNumber: int64(in.Number),
		Modality:    in.Modality,
		ModalityKey: key,
		Capacity:    int64(in.Capacity),
		ImageRef:    nullString(in.ImageRef),
		UpdatedAt:   at,
		ID:          id,
	})
	if err != nil {
		return Court{}, courtWriteError("update court", in, err)
	}
	return courtFromRow(row), nil
}

// SetEnabled toggles bookability. Existing reservations are untouched.
func (c *Catalog) SetEnabled(ctx context.Context, id int64, enabled bool, at time.Time) (Court, error) {
	row, err := c.db.Queries.SetCourtEnabled(ctx, dbgen.SetCourtEnabledParams{
		Enabled:   enabled,
		UpdatedAt: at,
		ID:        id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Court{}, courtNotFound(id)
	}
	if err != nil {
		return Court{}, storeError("set court enabled", err)
	}
	return courtFromRow(row), nil
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	n, err := c.db.Queries.DeleteCourt(ctx, id)
	if err != nil {
		return storeError("delete court", err)
	}
	if n == 0 {
		return courtNotFound(id)
	}
	return nil
}

func (c *Catalog) checkNumberFree(ctx context.Context, number int, key string, excludeID int64) error {
	n, err := c.db.Queries.CountCourtsWithNumber(ctx, dbgen.CountCourtsWithNumberParams{
		CourtNumber: int64(number),
		ModalityKey: key,
		ExcludeID:   excludeID,
	})
	if err != nil {
		return storeError("check court number", err)
	}
	if n > 0 {
		return conflictError(CodeCourtNumberTaken, "court %d already exists for this modality", number)
	}
	return nil
}

func courtWriteError(op string, in CourtInput, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return conflictError(CodeCourtNumberTaken, "court %d already exists for %s", in.Number, in.Modality)
	}
	return storeError(op, err)
}

func courtFromRow(row dbgen.Court) Court {
	return Court{
		ID:          row.ID,
		Number:      int(row.CourtNumber),
		Name:        CourtName(int(row.CourtNumber), row.Modality),
		Modality:    row.Modality,
		ModalityKey: row.ModalityKey,
		Capacity:    int(row.Capacity),
		ImageRef:    row.ImageRef.String,
		Enabled:     row.Enabled,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
