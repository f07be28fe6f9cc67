// Package request parses path and query parameters shared by the API handlers.
package request

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/codr1/Courtbook/internal/api/apiutil"
	"github.com/codr1/Courtbook/internal/booking"
)

// PathID parses a positive int64 path value such as {id}.
func PathID(r *http.Request, name string) (int64, error) {
	return apiutil.ParsePositiveInt64Field(r.PathValue(name), name)
}

// Page reads page (zero-based) and size from the query. Missing values are
// left at zero for the service to default.
func Page(r *http.Request) (booking.PageRequest, error) {
	q := r.URL.Query()
	var page booking.PageRequest
	if raw := q.Get("page"); strings.TrimSpace(raw) != "" {
		v, err := apiutil.ParseNonNegativeInt64Field(raw, "page")
		if err != nil {
			return page, err
		}
		page.Page = int(v)
	}
	if raw := q.Get("size"); strings.TrimSpace(raw) != "" {
		v, err := apiutil.ParsePositiveInt64Field(raw, "size")
		if err != nil {
			return page, err
		}
		page.Size = int(v)
	}
	return page, nil
}

// ReservationFilter reads the admin listing filters.
func ReservationFilter(r *http.Request) (booking.Filter, error) {
	q := r.URL.Query()
	f := booking.Filter{
		OwnerName: strings.TrimSpace(q.Get("owner")),
		CourtName: strings.TrimSpace(q.Get("court")),
		Status:    booking.StatusFilterAll,
	}

	var err error
	if f.From, err = apiutil.ParseOptionalDateField(q.Get("from"), "from"); err != nil {
		return f, err
	}
	if f.To, err = apiutil.ParseOptionalDateField(q.Get("to"), "to"); err != nil {
		return f, err
	}
	if f.Upcoming, err = apiutil.ParseBoolField(q.Get("upcoming"), "upcoming"); err != nil {
		return f, err
	}

	switch status := booking.StatusFilter(strings.ToLower(strings.TrimSpace(q.Get("status")))); status {
	case "", booking.StatusFilterAll:
	case booking.StatusFilterActive, booking.StatusFilterCancelled:
		f.Status = status
	default:
		return f, fmt.Errorf("status must be one of all, active, cancelled")
	}
	return f, nil
}
