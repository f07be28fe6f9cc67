package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCancellationPolicy(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	owner := Actor{ID: 1}
	stranger := Actor{ID: 2}
	admin := Actor{ID: 3, Admin: true}

	future := Reservation{ID: 10, OwnerID: 1, Date: MustDate("2024-01-15"), Start: MustClock("14:00"), End: MustClock("15:00"), Status: StatusActive}
	started := future
	started.Start, started.End = MustClock("11:00"), MustClock("13:00")
	cancelled := future
	cancelled.Status = StatusCancelled

	tests := []struct {
		name   string
		policy CancellationPolicy
		run    func(CancellationPolicy) error
		want   Code
	}{
		{"owner before start", DefaultPolicy(), func(p CancellationPolicy) error { return p.CheckOwner(future, owner, now) }, ""},
		{"owner after start", DefaultPolicy(), func(p CancellationPolicy) error { return p.CheckOwner(started, owner, now) }, CodeCancellationWindowClosed},
		{"owner after start allowed", CancellationPolicy{OwnerCancelAfterStart: true}, func(p CancellationPolicy) error { return p.CheckOwner(started, owner, now) }, ""},
		{"stranger", DefaultPolicy(), func(p CancellationPolicy) error { return p.CheckOwner(future, stranger, now) }, CodeForbidden},
		{"admin is not owner", DefaultPolicy(), func(p CancellationPolicy) error { return p.CheckOwner(future, admin, now) }, CodeForbidden},
		{"owner twice", DefaultPolicy(), func(p CancellationPolicy) error { return p.CheckOwner(cancelled, owner, now) }, CodeAlreadyCancelled},
		{"admin with reason", DefaultPolicy(), func(p CancellationPolicy) error {
			_, err := p.CheckAdmin(future, admin, "court maintenance", now)
			return err
		}, ""},
		{"admin blank reason", DefaultPolicy(), func(p CancellationPolicy) error {
			_, err := p.CheckAdmin(future, admin, "   ", now)
			return err
		}, CodeReasonRequired},
		{"admin past allowed", DefaultPolicy(), func(p CancellationPolicy) error {
			_, err := p.CheckAdmin(started, admin, "rain", now)
			return err
		}, ""},
		{"admin past disallowed", CancellationPolicy{AdminCancelPast: false}, func(p CancellationPolicy) error {
			_, err := p.CheckAdmin(started, admin, "rain", now)
			return err
		}, CodeCancellationWindowClosed},
		{"admin twice", DefaultPolicy(), func(p CancellationPolicy) error {
			_, err := p.CheckAdmin(cancelled, admin, "rain", now)
			return err
		}, CodeAlreadyCancelled},
		{"member as admin", DefaultPolicy(), func(p CancellationPolicy) error {
			_, err := p.CheckAdmin(future, owner, "rain", now)
			return err
		}, CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(tt.policy)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !IsCode(err, tt.want) {
				t.Fatalf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestCheckAdminTrimsReason(t *testing.T) {
	r := Reservation{ID: 1, OwnerID: 5, Date: MustDate("2030-01-01"), Start: 600, End: 660, Status: StatusActive}
	reason, err := DefaultPolicy().CheckAdmin(r, Actor{ID: 9, Admin: true}, "  storm damage \n", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CheckAdmin: %v", err)
	}
	if reason != "storm damage" {
		t.Fatalf("reason = %q", reason)
	}
}

func TestCheckEdit(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	r := Reservation{ID: 1, OwnerID: 5, Date: MustDate("2024-01-15"), Start: MustClock("14:00"), End: MustClock("15:00"), Status: StatusActive}

	if err := CheckEdit(r, Actor{ID: 5}, now); err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	if err := CheckEdit(r, Actor{ID: 6, Admin: true}, now); err != nil {
		t.Fatalf("admin edit: %v", err)
	}
	if err := CheckEdit(r, Actor{ID: 6}, now); !IsCode(err, CodeForbidden) {
		t.Fatalf("stranger edit = %v", err)
	}
	if err := CheckEdit(r, Actor{ID: 5}, now.Add(2*time.Hour)); !IsCode(err, CodeNotEditable) {
		t.Fatalf("edit at start = %v", err)
	}
	r.Status = StatusCancelled
	if err := CheckEdit(r, Actor{ID: 5}, now); !IsCode(err, CodeNotEditable) {
		t.Fatalf("edit cancelled = %v", err)
	}
}

type fixedCounter struct {
	n   int64
	err error
}

func (f fixedCounter) CountBlocking(context.Context, int64, Date) (int64, error) {
	return f.n, f.err
}

func TestDeletionGuard(t *testing.T) {
	ctx := context.Background()
	today := MustDate("2024-01-15")

	if err := (DeletionGuard{Counter: fixedCounter{}}).Check(ctx, 1, today); err != nil {
		t.Fatalf("no blocking reservations: %v", err)
	}

	err := (DeletionGuard{Counter: fixedCounter{n: 3}}).Check(ctx, 1, today)
	e, ok := AsError(err)
	if !ok || e.Kind != KindPreconditionFailed || e.Count != 3 {
		t.Fatalf("error = %#v, want PreconditionFailed(3)", err)
	}

	boom := errors.New("disk gone")
	if err := (DeletionGuard{Counter: fixedCounter{err: boom}}).Check(ctx, 1, today); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want passthrough", err)
	}
}
