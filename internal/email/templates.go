package email

import (
	"fmt"
	"strings"

	"github.com/codr1/Courtbook/internal/booking"
)

// ReservationDetails is the reservation as shown in an email.
type ReservationDetails struct {
	ClubName  string
	Court     string
	Date      string
	TimeRange string
	Guests    string
	Reason    string
}

// DetailsFor formats a reservation for the email templates.
func DetailsFor(clubName string, r booking.Reservation) ReservationDetails {
	guests := "None"
	if len(r.Guests) > 0 {
		guests = strings.Join(r.Guests, ", ")
	}
	return ReservationDetails{
		ClubName:  clubName,
		Court:     r.CourtName,
		Date:      formatDate(r.Date),
		TimeRange: r.Window().String(),
		Guests:    guests,
		Reason:    r.CancellationReason,
	}
}

func formatDate(d booking.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func BuildConfirmationEmail(details ReservationDetails) Message {
	return buildReservationEmail(
		"Reservation Confirmed",
		"Your court reservation is confirmed.",
		details,
		"You can cancel from your reservations page before the start time.",
	)
}

func BuildAdminCancellationEmail(details ReservationDetails) Message {
	reason := strings.TrimSpace(details.Reason)
	if reason == "" {
		reason = "Not provided"
	}
	return buildReservationEmail(
		"Reservation Cancelled",
		"Your court reservation was cancelled by the club administration.",
		details,
		fmt.Sprintf("Reason: %s", reason),
	)
}

func BuildReminderEmail(details ReservationDetails) Message {
	return buildReservationEmail(
		"Upcoming Reservation Reminder",
		"Reminder: your court reservation is coming up.",
		details,
		"",
	)
}

func buildReservationEmail(subjectPrefix, intro string, details ReservationDetails, footer string) Message {
	clubName := strings.TrimSpace(details.ClubName)
	if clubName == "" {
		clubName = "your club"
	}
	court := strings.TrimSpace(details.Court)
	if court == "" {
		court = "TBD"
	}

	lines := []string{
		intro,
		"",
		fmt.Sprintf("Club: %s", clubName),
		fmt.Sprintf("Court: %s", court),
		fmt.Sprintf("Date: %s", strings.TrimSpace(details.Date)),
		fmt.Sprintf("Time: %s", strings.TrimSpace(details.TimeRange)),
		fmt.Sprintf("Guests: %s", strings.TrimSpace(details.Guests)),
	}
	if footer != "" {
		lines = append(lines, "", footer)
	}

	return Message{
		Subject: fmt.Sprintf("%s - %s", subjectPrefix, clubName),
		Body:    strings.Join(lines, "\n"),
	}
}
