package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/api/authz"
	"github.com/codr1/Courtbook/internal/booking"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Count   *int64 `json:"count,omitempty"`
}

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 1 << 20

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// DecodeAndValidate decodes the request body and runs the struct's
// validate tags.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst); err != nil {
		return HandlerError{Status: http.StatusBadRequest, Message: "invalid request body: " + err.Error(), Err: err}
	}
	if err := ValidateStruct(dst); err != nil {
		return HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps err onto a status code and JSON error body. Booking
// errors keep their code; anything unrecognised is logged and hidden
// behind a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		_ = WriteJSON(w, handlerErr.Status, ErrorResponse{
			Error:   statusCode(handlerErr.Status),
			Message: handlerErr.Message,
		})
		return
	}

	if bookingErr, ok := booking.AsError(err); ok {
		resp := ErrorResponse{Error: string(bookingErr.Code), Message: bookingErr.Error()}
		if bookingErr.Kind == booking.KindPreconditionFailed {
			count := bookingErr.Count
			resp.Count = &count
		}
		status := statusForKind(bookingErr.Kind)
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", "1")
		}
		_ = WriteJSON(w, status, resp)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	_ = WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal",
		Message: "Internal Server Error",
	})
}

func statusForKind(kind booking.Kind) int {
	switch kind {
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindForbidden:
		return http.StatusForbidden
	case booking.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case booking.KindBusy:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusUnauthorized:
		return "Unauthenticated"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusTooManyRequests:
		return "RateLimited"
	case http.StatusInternalServerError:
		return "Internal"
	}
	return strconv.Itoa(status)
}

// RequireUser returns the caller as a booking actor, or writes 401.
func RequireUser(w http.ResponseWriter, r *http.Request) (booking.Actor, bool) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		log.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Access denied: unauthenticated")
		WriteError(w, r, HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: authz.ErrUnauthenticated})
		return booking.Actor{}, false
	}
	return user.Actor(), true
}
