// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Courtbook/internal/booking"
	"github.com/codr1/Courtbook/internal/config"
	"github.com/codr1/Courtbook/internal/db"
	"github.com/codr1/Courtbook/internal/email"
	"github.com/codr1/Courtbook/internal/keylock"
	"github.com/codr1/Courtbook/internal/ratelimit"
	"github.com/codr1/Courtbook/internal/scheduler"
)

const devJWTSecret = "courtbook-development-secret"

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func newLocker(ctx context.Context, cfg *config.Config) (keylock.Locker, func(), error) {
	switch cfg.Locks.Driver {
	case "redis":
		locker, err := keylock.NewRedisFromURL(ctx, cfg.Locks.RedisURL, cfg.Locks.Wait, cfg.Locks.TTL)
		if err != nil {
			return nil, nil, err
		}
		return locker, func() { _ = locker.Close() }, nil
	default:
		return keylock.NewMemory(cfg.Locks.Wait), func() {}, nil
	}
}

func newBookingService(cfg *config.Config, database *db.DB, locker keylock.Locker) (*booking.Service, error) {
	grid, err := booking.NewGrid(cfg.Booking.Open, cfg.Booking.Close, cfg.Booking.SlotMinutes, cfg.Booking.ResolutionMinutes)
	if err != nil {
		return nil, fmt.Errorf("booking grid: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("booking timezone: %w", err)
	}
	return booking.NewService(database, locker, booking.Options{
		Grid: grid,
		Policy: booking.CancellationPolicy{
			OwnerCancelAfterStart: cfg.Booking.OwnerCancelAfterStart,
			AdminCancelPast:       cfg.Booking.AdminCancelPast,
		},
		Location:    loc,
		PageSize:    cfg.Booking.PageSize,
		MaxPageSize: cfg.Booking.MaxPageSize,
	}), nil
}

func newEmailSender(ctx context.Context, cfg *config.Config) email.EmailSender {
	if !cfg.Email.Enabled() {
		log.Info().Msg("Email disabled: SES not configured")
		return nil
	}
	client, err := email.NewSESClient(ctx, cfg.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize SES client; email disabled")
		return nil
	}
	return client
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)
	if cfg.App.JWTSecret == "" {
		log.Warn().Msg("AUTH_JWT_SECRET not set; using the development secret")
		cfg.App.JWTSecret = devJWTSecret
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Locks.Driver).Msg("Failed to initialize locks")
	}
	defer closeLocker()

	svc, err := newBookingService(cfg, database, locker)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build booking service")
	}
	sender := newEmailSender(ctx, cfg)

	if err := scheduler.Init(svc.Location()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if cfg.Scheduler.ReminderCron != "" {
		job := &scheduler.ReminderJob{
			Service:     svc,
			Sender:      sender,
			ClubName:    cfg.App.Name,
			HoursBefore: cfg.Scheduler.ReminderHoursBefore,
		}
		if err := scheduler.RegisterReminderJobs(job, cfg.Scheduler.ReminderCron); err != nil {
			log.Fatal().Err(err).Msg("Failed to register reminder job")
		}
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled() {
		limiter = ratelimit.New(&ratelimit.Config{
			Window:    cfg.RateLimit.Window,
			PerMember: cfg.RateLimit.PerMember,
			PerIP:     cfg.RateLimit.PerIP,
			Cooldown:  cfg.RateLimit.Cooldown,
		})
		defer limiter.Close()
	}

	server := newServer(cfg, svc, sender, limiter)

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("timezone", svc.Location().String()).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown failed")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
