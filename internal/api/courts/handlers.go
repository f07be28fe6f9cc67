// internal/api/courts/handlers.go
package courts

import (
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/api/apiutil"
	"github.com/codr1/Courtbook/internal/booking"
	"github.com/codr1/Courtbook/internal/request"
)

var (
	service     *booking.Service
	serviceOnce sync.Once
)

type courtRequest struct {
	Number   int    `json:"number" validate:"required,gt=0"`
	Modality string `json:"modality" validate:"required,max=60"`
	Capacity int    `json:"capacity" validate:"required,gt=0,max=100"`
	ImageRef string `json:"image_ref" validate:"omitempty,max=500"`
}

func (req courtRequest) input() booking.CourtInput {
	return booking.CourtInput{
		Number:   req.Number,
		Modality: req.Modality,
		Capacity: req.Capacity,
		ImageRef: req.ImageRef,
	}
}

type enabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type slotsResponse struct {
	CourtID int64          `json:"court_id"`
	Date    booking.Date   `json:"date"`
	Slots   []booking.Slot `json:"slots"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

// GET /api/v1/courts
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	courts, err := svc.ListCourts(r.Context(), actor, strings.TrimSpace(r.URL.Query().Get("modality")))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if courts == nil {
		courts = []booking.Court{}
	}
	writeOK(w, r, http.StatusOK, courts)
}

// GET /api/v1/courts/modalities
func HandleModalitiesList(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	modalities, err := svc.ListModalities(r.Context(), actor)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if modalities == nil {
		modalities = []string{}
	}
	writeOK(w, r, http.StatusOK, modalities)
}

// GET /api/v1/courts/{id}
func HandleCourtGet(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := courtID(w, r)
	if !ok {
		return
	}
	court, err := svc.GetCourt(r.Context(), actor, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, court)
}

// POST /api/v1/courts
func HandleCourtCreate(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	var req courtRequest
	if err := apiutil.DecodeAndValidate(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	court, err := svc.CreateCourt(r.Context(), actor, req.input())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, court)
}

// PUT /api/v1/courts/{id}
func HandleCourtUpdate(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := courtID(w, r)
	if !ok {
		return
	}
	var req courtRequest
	if err := apiutil.DecodeAndValidate(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	court, err := svc.UpdateCourt(r.Context(), actor, id, req.input())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, court)
}

// PATCH /api/v1/courts/{id}/enabled
func HandleCourtEnabled(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := courtID(w, r)
	if !ok {
		return
	}
	var req enabledRequest
	if err := apiutil.DecodeAndValidate(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	court, err := svc.SetCourtEnabled(r.Context(), actor, id, *req.Enabled)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, court)
}

// DELETE /api/v1/courts/{id}
func HandleCourtDelete(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := courtID(w, r)
	if !ok {
		return
	}
	if err := svc.DeleteCourt(r.Context(), actor, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/courts/{id}/slots?date=YYYY-MM-DD
func HandleSlotsList(w http.ResponseWriter, r *http.Request) {
	svc, actor, ok := begin(w, r)
	if !ok {
		return
	}
	id, ok := courtID(w, r)
	if !ok {
		return
	}
	date, err := apiutil.ParseDateField(r.URL.Query().Get("date"), "date")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}
	slots, err := svc.ListSlots(r.Context(), actor, id, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, slotsResponse{CourtID: id, Date: date, Slots: slots})
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

func courtID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := request.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid court ID", Err: err})
		return 0, false
	}
	return id, true
}

func writeOK(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func loadService() *booking.Service {
	return service
}
