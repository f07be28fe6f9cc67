// internal/api/reservations/handlers.go
package reservations

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/api/apiutil"
	"github.com/codr1/Courtbook/internal/booking"
	"github.com/codr1/Courtbook/internal/email"
	"github.com/codr1/Courtbook/internal/request"
)

var (
	service     *booking.Service
	mailer      email.EmailSender
	clubName    string
	serviceOnce sync.Once
)

type reservationRequest struct {
	CourtID int64    `json:"court_id" validate:"required,gt=0"`
	Date    string   `json:"date" validate:"required,datetime=2006-01-02"`
	Start   string   `json:"start" validate:"required"`
	End     string   `json:"end" validate:"required"`
	Guests  []string `json:"guest_names" validate:"dive,max=120"`
}

type updateRequest struct {
	Start  string   `json:"start" validate:"required"`
	End    string   `json:"end" validate:"required"`
	Guests []string `json:"guest_names" validate:"dive,max=120"`
}

type adminCancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// reservationView adds the display phase to a reservation.
type reservationView struct {
	booking.Reservation
	Phase booking.Phase `json:"phase"`
}

type pageView struct {
	Items         []reservationView `json:"items"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

// InitHandlers must be called during server startup before handling requests.
// sender may be nil, in which case no email is sent.
func InitHandlers(svc *booking.Service, sender email.EmailSender, club string) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		mailer = sender
		clubName = club
	})
}

// POST /api/v1/reservations
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	var req reservationRequest
	if err := apiutil.DecodeAndValidate(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	date, err := apiutil.ParseDateField(req.Date, "date")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	window, err := apiutil.ParseWindowFields(req.Start, req.End)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	created, err := svc.CreateReservation(r.Context(), actor, booking.ReservationRequest{
		CourtID: req.CourtID,
		Date:    date,
		Window:  window,
		Guests:  req.Guests,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	notify(r, created.OwnerEmail, email.BuildConfirmationEmail(email.DetailsFor(clubName, created)))
	writeOK(w, r, http.StatusCreated, view(svc, created))
}

// GET /api/v1/reservations/{id}
func HandleReservationGet(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	res, err := svc.GetReservation(r.Context(), actor, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, view(svc, res))
}

// PUT /api/v1/reservations/{id}
func HandleReservationUpdate(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := apiutil.DecodeAndValidate(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	window, err := apiutil.ParseWindowFields(req.Start, req.End)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	updated, err := svc.UpdateReservation(r.Context(), actor, id, window, req.Guests)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, view(svc, updated))
}

// GET /api/v1/reservations/mine
func HandleReservationsMine(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	list, err := svc.ListReservationsByOwner(r.Context(), actor)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, views(svc, list))
}

// POST /api/v1/reservations/{id}/cancel
func HandleReservationCancel(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	cancelled, err := svc.CancelAsOwner(r.Context(), actor, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, view(svc, cancelled))
}

// POST /api/v1/reservations/{id}/admin-cancel
func HandleReservationAdminCancel(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := reservationID(w, r)
	if !ok {
		return
	}
	var req adminCancelRequest
	if err := apiutil.DecodeAndValidate(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	cancelled, err := svc.CancelAsAdmin(r.Context(), actor, id, req.Reason)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	notify(r, cancelled.OwnerEmail, email.BuildAdminCancellationEmail(email.DetailsFor(clubName, cancelled)))
	writeOK(w, r, http.StatusOK, view(svc, cancelled))
}

// GET /api/v1/admin/reservations
func HandleAdminReservationsList(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	filter, err := request.ReservationFilter(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	pageReq, err := request.Page(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	page, err := svc.ListReservationsAdmin(r.Context(), actor, filter, pageReq)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, pageView{
		Items:         views(svc, page.Items),
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Page:          page.Page,
		Size:          page.Size,
		First:         page.First,
		Last:          page.Last,
	})
}

func notify(r *http.Request, recipient string, message email.Message) {
	if mailer == nil || recipient == "" {
		return
	}
	email.SendAsync(r.Context(), mailer, recipient, message, log.Ctx(r.Context()))
}

func view(svc *booking.Service, res booking.Reservation) reservationView {
	return reservationView{Reservation: res, Phase: res.Phase(svc.Today())}
}

func views(svc *booking.Service, list []booking.Reservation) []reservationView {
	out := make([]reservationView, 0, len(list))
	today := svc.Today()
	for _, res := range list {
		out = append(out, reservationView{Reservation: res, Phase: res.Phase(today)})
	}
	return out
}

func begin(w http.ResponseWriter, r *http.Request) (*booking.Service, booking.Actor, bool) {
	svc := loadService()
	if svc == nil {
		log.Ctx(r.Context()).Error().Msg("Booking service not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
		return nil, booking.Actor{}, false
	}
	actor, ok := apiutil.RequireUser(w, r)
	return svc, actor, ok
}

func reservationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := request.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid reservation ID", Err: err})
		return 0, false
	}
	return id, true
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
}

func writeOK(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func loadService() *booking.Service {
	return service
}
