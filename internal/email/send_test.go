package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/Courtbook/internal/booking"
)

type sentEmail struct {
	recipient string
	subject   string
	body      string
	ctxErr    error
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
	done chan struct{}
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{done: make(chan struct{}, 4)}
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentEmail{recipient: recipient, subject: subject, body: body, ctxErr: ctx.Err()})
	f.mu.Unlock()
	select {
	case f.done <- struct{}{}:
	default:
	}
	return f.err
}

func (f *fakeEmailSender) calls() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmail(nil), f.sent...)
}

func waitForSend(t *testing.T, sender *fakeEmailSender) {
	t.Helper()

	select {
	case <-sender.done:
	case <-time.After(time.Second):
		t.Fatal("expected email send")
	}
}

func TestSendAsyncSurvivesRequestCancellation(t *testing.T) {
	sender := newFakeEmailSender()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	SendAsync(ctx, sender, " member@club.test ", Message{Subject: "Subject", Body: "Body"}, nil)

	waitForSend(t, sender)
	calls := sender.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one send call, got %d", len(calls))
	}
	if calls[0].ctxErr != nil {
		t.Fatalf("expected detached context, got %v", calls[0].ctxErr)
	}
	if calls[0].recipient != "member@club.test" {
		t.Fatalf("recipient = %q", calls[0].recipient)
	}
}

func TestSendAsyncSkipsIncompleteMessages(t *testing.T) {
	sender := newFakeEmailSender()

	SendAsync(context.Background(), sender, "", Message{Subject: "Subject", Body: "Body"}, nil)
	SendAsync(context.Background(), sender, "member@club.test", Message{Subject: "Subject"}, nil)
	SendAsync(context.Background(), nil, "member@club.test", Message{Subject: "Subject", Body: "Body"}, nil)

	select {
	case <-sender.done:
		t.Fatal("expected no send")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendNowReturnsSenderError(t *testing.T) {
	sender := newFakeEmailSender()
	sender.err = errors.New("throttled")

	err := SendNow(context.Background(), sender, "member@club.test", Message{Subject: "Subject", Body: "Body"})
	if !errors.Is(err, sender.err) {
		t.Fatalf("expected sender error, got %v", err)
	}
}

func TestReservationTemplates(t *testing.T) {
	r := booking.Reservation{
		CourtName:          "Quadra 2 - Tênis",
		Date:               booking.MustDate("2024-03-09"),
		Start:              booking.MustClock("18:00"),
		End:                booking.MustClock("19:30"),
		Guests:             []string{"Ana", "Caio"},
		CancellationReason: "court maintenance",
	}
	details := DetailsFor("Clube Central", r)

	confirmation := BuildConfirmationEmail(details)
	if confirmation.Subject != "Reservation Confirmed - Clube Central" {
		t.Fatalf("subject = %q", confirmation.Subject)
	}
	for _, want := range []string{"Court: Quadra 2 - Tênis", "Date: 09/03/2024", "Time: 18:00-19:30", "Guests: Ana, Caio"} {
		if !strings.Contains(confirmation.Body, want) {
			t.Fatalf("confirmation body missing %q:\n%s", want, confirmation.Body)
		}
	}

	cancellation := BuildAdminCancellationEmail(details)
	if !strings.Contains(cancellation.Body, "Reason: court maintenance") {
		t.Fatalf("cancellation body missing reason:\n%s", cancellation.Body)
	}

	reminder := BuildReminderEmail(DetailsFor("", booking.Reservation{Date: r.Date, Start: r.Start, End: r.End}))
	if !strings.Contains(reminder.Body, "Club: your club") || !strings.Contains(reminder.Body, "Guests: None") {
		t.Fatalf("reminder defaults missing:\n%s", reminder.Body)
	}
}
