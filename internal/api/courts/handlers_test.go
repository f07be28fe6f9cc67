package courts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/Courtbook/internal/api"
	"github.com/codr1/Courtbook/internal/api/apiutil"
	"github.com/codr1/Courtbook/internal/api/auth"
	"github.com/codr1/Courtbook/internal/api/authz"
	"github.com/codr1/Courtbook/internal/booking"
	"github.com/codr1/Courtbook/internal/keylock"
	"github.com/codr1/Courtbook/internal/testutil"
)

var (
	adminUser  = authz.AuthUser{ID: 1, Name: "Admin", IsAdmin: true}
	memberUser = authz.AuthUser{ID: 100, Name: "Xavier", Email: "xavier@club.test"}
)

type testEnv struct {
	svc      *booking.Service
	handler  http.Handler
	verifier *auth.Verifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)
	svc := booking.NewService(testutil.NewTestDB(t), keylock.NewMemory(time.Second), booking.Options{
		Policy:   booking.DefaultPolicy(),
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})

	prev := service
	service = svc
	t.Cleanup(func() { service = prev })

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/courts", HandleCourtsList)
	mux.HandleFunc("GET /api/v1/courts/modalities", HandleModalitiesList)
	mux.HandleFunc("GET /api/v1/courts/{id}", HandleCourtGet)
	mux.HandleFunc("POST /api/v1/courts", HandleCourtCreate)
	mux.HandleFunc("PUT /api/v1/courts/{id}", HandleCourtUpdate)
	mux.HandleFunc("PATCH /api/v1/courts/{id}/enabled", HandleCourtEnabled)
	mux.HandleFunc("DELETE /api/v1/courts/{id}", HandleCourtDelete)
	mux.HandleFunc("GET /api/v1/courts/{id}/slots", HandleSlotsList)

	verifier := auth.NewVerifier("test-secret")
	return &testEnv{
		svc:      svc,
		handler:  api.ChainMiddleware(mux, api.WithAuth(verifier), api.WithRequestID),
		verifier: verifier,
	}
}

func (e *testEnv) do(t *testing.T, user *authz.AuthUser, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		token, err := e.verifier.IssueToken(*user, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	if code == "" {
		return
	}
	if got := decode[apiutil.ErrorResponse](t, rec); got.Error != code {
		t.Fatalf("error code = %q, want %q", got.Error, code)
	}
}

func TestCourtAdminLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, &adminUser, "POST", "/api/v1/courts", map[string]any{"number": 1, "modality": "  Futebol ", "capacity": 22})
	expectStatus(t, rec, http.StatusCreated, "")
	court := decode[booking.Court](t, rec)
	if court.Name != "Quadra 1 - Futebol" || !court.Enabled {
		t.Fatalf("created court = %+v", court)
	}

	rec = env.do(t, &adminUser, "POST", "/api/v1/courts", map[string]any{"number": 1, "modality": "FUTEBOL", "capacity": 10})
	expectStatus(t, rec, http.StatusConflict, string(booking.CodeCourtNumberTaken))

	rec = env.do(t, &adminUser, "PATCH", "/api/v1/courts/1/enabled", map[string]any{"enabled": false})
	expectStatus(t, rec, http.StatusOK, "")
	if decode[booking.Court](t, rec).Enabled {
		t.Fatalf("court still enabled")
	}

	rec = env.do(t, &memberUser, "GET", "/api/v1/courts", nil)
	expectStatus(t, rec, http.StatusOK, "")
	if list := decode[[]booking.Court](t, rec); len(list) != 0 {
		t.Fatalf("member sees disabled courts: %+v", list)
	}
	expectStatus(t, env.do(t, &memberUser, "GET", "/api/v1/courts/1", nil), http.StatusNotFound, string(booking.CodeCourtNotFound))

	rec = env.do(t, &adminUser, "GET", "/api/v1/courts", nil)
	if list := decode[[]booking.Court](t, rec); len(list) != 1 {
		t.Fatalf("admin list = %+v", list)
	}

	rec = env.do(t, &adminUser, "PUT", "/api/v1/courts/1", map[string]any{"number": 3, "modality": "Futebol", "capacity": 14})
	expectStatus(t, rec, http.StatusOK, "")
	if updated := decode[booking.Court](t, rec); updated.Number != 3 || updated.Capacity != 14 {
		t.Fatalf("updated court = %+v", updated)
	}

	expectStatus(t, env.do(t, &adminUser, "DELETE", "/api/v1/courts/1", nil), http.StatusNoContent, "")
	expectStatus(t, env.do(t, &adminUser, "GET", "/api/v1/courts/1", nil), http.StatusNotFound, string(booking.CodeCourtNotFound))
}

func TestCourtRoutesRequireIdentityAndRole(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.do(t, nil, "GET", "/api/v1/courts", nil), http.StatusUnauthorized, "Unauthenticated")
	expectStatus(t, env.do(t, &memberUser, "POST", "/api/v1/courts", map[string]any{"number": 1, "modality": "Tênis", "capacity": 4}), http.StatusForbidden, string(booking.CodeForbidden))

	req := httptest.NewRequest("GET", "/api/v1/courts", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized, "Unauthenticated")
}

func TestCourtCreateValidatesBody(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]any{
		"unknown field":    `{"number":1,"modality":"Tênis","capacity":4,"color":"red"}`,
		"missing modality": map[string]any{"number": 1, "capacity": 4},
		"zero capacity":    map[string]any{"number": 1, "modality": "Tênis", "capacity": 0},
		"trailing data":    `{"number":1,"modality":"Tênis","capacity":4}{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			expectStatus(t, env.do(t, &adminUser, "POST", "/api/v1/courts", body), http.StatusBadRequest, "BadRequest")
		})
	}
	expectStatus(t, env.do(t, &adminUser, "PATCH", "/api/v1/courts/1/enabled", map[string]any{}), http.StatusBadRequest, "BadRequest")
	expectStatus(t, env.do(t, &adminUser, "GET", "/api/v1/courts/abc", nil), http.StatusBadRequest, "BadRequest")
}

func TestCourtDeleteBlockedByPendingReservations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	court, err := env.svc.CreateCourt(ctx, adminUser.Actor(), booking.CourtInput{Number: 2, Modality: "Padel", Capacity: 4})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}
	if _, err := env.svc.CreateReservation(ctx, memberUser.Actor(), booking.ReservationRequest{
		CourtID: court.ID,
		Date:    booking.MustDate("2024-01-20"),
		Window:  booking.Window{Start: booking.MustClock("09:00"), End: booking.MustClock("10:00")},
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	rec := env.do(t, &adminUser, "DELETE", "/api/v1/courts/1", nil)
	expectStatus(t, rec, http.StatusPreconditionFailed, "")
	body := decode[apiutil.ErrorResponse](t, rec)
	if body.Error != string(booking.CodeReservationsPending) || body.Count == nil || *body.Count != 1 {
		t.Fatalf("error body = %+v", body)
	}
}

func TestSlotsAndModalities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i, modality := range []string{"Tênis", "tênis", "Futebol"} {
		if _, err := env.svc.CreateCourt(ctx, adminUser.Actor(), booking.CourtInput{Number: i + 1, Modality: modality, Capacity: 4}); err != nil {
			t.Fatalf("create court: %v", err)
		}
	}
	if _, err := env.svc.CreateReservation(ctx, memberUser.Actor(), booking.ReservationRequest{
		CourtID: 1,
		Date:    booking.MustDate("2024-01-15"),
		Window:  booking.Window{Start: booking.MustClock("10:00"), End: booking.MustClock("11:00")},
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	rec := env.do(t, &memberUser, "GET", "/api/v1/courts/modalities", nil)
	expectStatus(t, rec, http.StatusOK, "")
	if modalities := decode[[]string](t, rec); len(modalities) != 2 {
		t.Fatalf("modalities = %v", modalities)
	}

	rec = env.do(t, &memberUser, "GET", "/api/v1/courts?modality=TÊNIS", nil)
	if list := decode[[]booking.Court](t, rec); len(list) != 2 {
		t.Fatalf("tennis courts = %+v", list)
	}

	rec = env.do(t, &memberUser, "GET", "/api/v1/courts/1/slots?date=2024-01-15", nil)
	expectStatus(t, rec, http.StatusOK, "")
	slots := decode[slotsResponse](t, rec)
	if len(slots.Slots) != 16 {
		t.Fatalf("slots = %d", len(slots.Slots))
	}
	for _, s := range slots.Slots {
		if s.Start == booking.MustClock("10:00") && s.Available {
			t.Fatalf("booked slot shown available")
		}
		if s.Start == booking.MustClock("11:00") && !s.Available {
			t.Fatalf("free slot shown unavailable")
		}
	}

	expectStatus(t, env.do(t, &memberUser, "GET", "/api/v1/courts/1/slots?date=15/01/2024", nil), http.StatusBadRequest, "BadRequest")
	expectStatus(t, env.do(t, &memberUser, "GET", "/api/v1/courts/1/slots", nil), http.StatusBadRequest, "BadRequest")
}
