package booking

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a caller should react.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindForbidden
	KindPreconditionFailed
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindBusy:
		return "busy"
	}
	return "unknown"
}

// Code names the specific rule or state that rejected an operation.
type Code string

const (
	CodeInvalidTimeRange         Code = "InvalidTimeRange"
	CodeStartInPast              Code = "StartInPast"
	CodeSlotTaken                Code = "SlotTaken"
	CodeDuplicateCourtSameDay    Code = "DuplicateCourtSameDay"
	CodeDuplicateModalitySameDay Code = "DuplicateModalitySameDay"
	CodeGuestListInvalid         Code = "GuestListInvalid"
	CodeCourtDisabled            Code = "CourtDisabled"
	CodeCourtNumberTaken         Code = "CourtNumberTaken"
	CodeInvalidCourt             Code = "InvalidCourt"
	CodeNotEditable              Code = "NotEditable"
	CodeAlreadyCancelled         Code = "AlreadyCancelled"
	CodeCancellationWindowClosed Code = "CancellationWindowClosed"
	CodeReasonRequired           Code = "ReasonRequired"
	CodeCourtNotFound            Code = "CourtNotFound"
	CodeReservationNotFound      Code = "ReservationNotFound"
	CodeForbidden                Code = "Forbidden"
	CodeReservationsPending      Code = "ReservationsPending"
	CodeBusy                     Code = "Busy"
)

// Error is the only error type the booking core returns for rule and state
// failures. Anything else is an infrastructure error.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	// Count is set for PreconditionFailed.
	Count int64
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsError unwraps err to a booking Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func IsCode(err error, code Code) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

func newError(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(code Code, format string, args ...any) *Error {
	return newError(KindValidation, code, format, args...)
}

func conflictError(code Code, format string, args ...any) *Error {
	return newError(KindConflict, code, format, args...)
}

func courtNotFound(id int64) *Error {
	return newError(KindNotFound, CodeCourtNotFound, "court %d not found", id)
}

func reservationNotFound(id int64) *Error {
	return newError(KindNotFound, CodeReservationNotFound, "reservation %d not found", id)
}

func forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, CodeForbidden, format, args...)
}

func reservationsPending(count int64) *Error {
	e := newError(KindPreconditionFailed, CodeReservationsPending,
		"court has %d active reservation(s) from today on; cancel them first", count)
	e.Count = count
	return e
}

func busy() *Error {
	return newError(KindBusy, CodeBusy, "another booking is in progress, retry shortly")
}
