package booking

import (
	"strings"
	"time"
)

// CancellationPolicy governs ACTIVE -> CANCELLED. There is no way back.
type CancellationPolicy struct {
	// OwnerCancelAfterStart lets owners cancel once the slot has started.
	OwnerCancelAfterStart bool
	// AdminCancelPast lets admins cancel reservations that already started.
	AdminCancelPast bool
}

func DefaultPolicy() CancellationPolicy {
	return CancellationPolicy{AdminCancelPast: true}
}

// CheckOwner decides whether actor may cancel r as its owner.
func (p CancellationPolicy) CheckOwner(r Reservation, actor Actor, now time.Time) error {
	if r.OwnerID != actor.ID {
		return forbidden("only the owner can cancel reservation %d", r.ID)
	}
	if !r.Active() {
		return conflictError(CodeAlreadyCancelled, "reservation %d is already cancelled", r.ID)
	}
	if !p.OwnerCancelAfterStart && !r.StartsAt(now.Location()).After(now) {
		return conflictError(CodeCancellationWindowClosed, "reservation %d has already started", r.ID)
	}
	return nil
}

// CheckAdmin decides whether actor may cancel r as an administrator and
// returns the trimmed reason.
func (p CancellationPolicy) CheckAdmin(r Reservation, actor Actor, reason string, now time.Time) (string, error) {
	if !actor.Admin {
		return "", forbidden("admin cancellation requires an administrator")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", validationError(CodeReasonRequired, "a cancellation reason is required")
	}
	if !r.Active() {
		return "", conflictError(CodeAlreadyCancelled, "reservation %d is already cancelled", r.ID)
	}
	if !p.AdminCancelPast && !r.StartsAt(now.Location()).After(now) {
		return "", conflictError(CodeCancellationWindowClosed, "reservation %d has already started", r.ID)
	}
	return reason, nil
}

// CheckEdit decides whether actor may change r's window or guests.
func CheckEdit(r Reservation, actor Actor, now time.Time) error {
	if r.OwnerID != actor.ID && !actor.Admin {
		return forbidden("reservation %d belongs to another member", r.ID)
	}
	if !r.Active() || !r.StartsAt(now.Location()).After(now) {
		return conflictError(CodeNotEditable, "reservation %d can no longer be changed", r.ID)
	}
	return nil
}

// CheckView decides whether actor may read r.
func CheckView(r Reservation, actor Actor) error {
	if r.OwnerID != actor.ID && !actor.Admin {
		return forbidden("reservation %d belongs to another member", r.ID)
	}
	return nil
}
