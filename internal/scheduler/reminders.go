package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/booking"
	"github.com/codr1/Courtbook/internal/email"
)

const (
	defaultReminderHoursBefore = 24
	reminderJobName            = "reservation_reminders"
	reminderJobTimeout         = 2 * time.Minute
)

// ReminderJob emails owners of ACTIVE reservations starting within
// HoursBefore hours and records that the reminder went out.
type ReminderJob struct {
	Service     *booking.Service
	Sender      email.EmailSender
	ClubName    string
	HoursBefore int
}

// RegisterReminderJobs registers the reminder job on the singleton scheduler.
func RegisterReminderJobs(job *ReminderJob, cronExpr string) error {
	if job == nil || job.Service == nil {
		return fmt.Errorf("reminder jobs require the booking service")
	}

	jobLogger := log.With().
		Str("component", "reservation_reminders_job").
		Str("job_name", reminderJobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(reminderJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if job.Sender == nil {
			jobLogger.Debug().Msg("Reminder job skipped: email client not configured")
			return
		}
		sent, err := job.Run(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Int("sent", sent).Msg("Reminder job failed")
			return
		}
		if sent > 0 {
			jobLogger.Info().Int("sent", sent).Msg("Reservation reminders sent")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("add reservation reminder job: %w", err)
	}

	jobLogger.Info().Msg("Reservation reminder job registered")
	return nil
}

// Run sends every due reminder once and returns how many went out. A failed
// send leaves the reservation unmarked so the next run retries it.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	logger := log.Ctx(ctx)
	hours := j.HoursBefore
	if hours <= 0 {
		hours = defaultReminderHoursBefore
	}

	now := j.Service.Now()
	horizon := now.Add(time.Duration(hours) * time.Hour)
	store := j.Service.Store()

	candidates, err := store.ListRemindable(ctx, booking.DateOf(now), booking.DateOf(horizon))
	if err != nil {
		return 0, fmt.Errorf("load remindable reservations: %w", err)
	}

	sent := 0
	for _, r := range candidates {
		startsAt := r.StartsAt(j.Service.Location())
		if !startsAt.After(now) || startsAt.After(horizon) {
			continue
		}
		if err := j.remind(ctx, store, r, logger); err != nil {
			logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("Failed to send reservation reminder")
			continue
		}
		sent++
	}
	return sent, nil
}

func (j *ReminderJob) remind(ctx context.Context, store *booking.Store, r booking.Reservation, logger *zerolog.Logger) error {
	message := email.BuildReminderEmail(email.DetailsFor(j.ClubName, r))
	if err := email.SendNow(ctx, j.Sender, r.OwnerEmail, message); err != nil {
		return err
	}
	if err := store.MarkReminderSent(ctx, r.ID, j.Service.Now().UTC()); err != nil {
		return err
	}
	logger.Debug().Int64("reservation_id", r.ID).Int64("owner_id", r.OwnerID).Msg("Reminder email sent")
	return nil
}
