// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codr1/Courtbook/internal/api"
	"github.com/codr1/Courtbook/internal/api/auth"
	"github.com/codr1/Courtbook/internal/api/courts"
	"github.com/codr1/Courtbook/internal/api/reservations"
	"github.com/codr1/Courtbook/internal/booking"
	"github.com/codr1/Courtbook/internal/config"
	"github.com/codr1/Courtbook/internal/email"
	"github.com/codr1/Courtbook/internal/ratelimit"
)

func newServer(cfg *config.Config, svc *booking.Service, sender email.EmailSender, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	courts.InitHandlers(svc)
	reservations.InitHandlers(svc, sender, cfg.App.Name)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth(auth.NewVerifier(cfg.App.JWTSecret)),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router, writeThrottle(limiter, cfg.RateLimit.TrustProxy))

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// writeThrottle wraps reservation writes; a nil limiter leaves them unthrottled.
func writeThrottle(limiter *ratelimit.Limiter, trustProxy bool) func(http.HandlerFunc) http.Handler {
	if limiter == nil {
		return func(h http.HandlerFunc) http.Handler { return h }
	}
	throttle := api.WithRateLimit(limiter, trustProxy)
	return func(h http.HandlerFunc) http.Handler { return throttle(h) }
}

func registerRoutes(mux *http.ServeMux, throttle func(http.HandlerFunc) http.Handler) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Court routes
	mux.HandleFunc("GET /api/v1/courts", courts.HandleCourtsList)
	mux.HandleFunc("GET /api/v1/courts/modalities", courts.HandleModalitiesList)
	mux.HandleFunc("GET /api/v1/courts/{id}", courts.HandleCourtGet)
	mux.HandleFunc("POST /api/v1/courts", courts.HandleCourtCreate)
	mux.HandleFunc("PUT /api/v1/courts/{id}", courts.HandleCourtUpdate)
	mux.HandleFunc("PATCH /api/v1/courts/{id}/enabled", courts.HandleCourtEnabled)
	mux.HandleFunc("DELETE /api/v1/courts/{id}", courts.HandleCourtDelete)
	mux.HandleFunc("GET /api/v1/courts/{id}/slots", courts.HandleSlotsList)

	// Reservation routes
	mux.Handle("POST /api/v1/reservations", throttle(reservations.HandleReservationCreate))
	mux.HandleFunc("GET /api/v1/reservations/mine", reservations.HandleReservationsMine)
	mux.HandleFunc("GET /api/v1/reservations/{id}", reservations.HandleReservationGet)
	mux.Handle("PUT /api/v1/reservations/{id}", throttle(reservations.HandleReservationUpdate))
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", reservations.HandleReservationCancel)
	mux.HandleFunc("POST /api/v1/reservations/{id}/admin-cancel", reservations.HandleReservationAdminCancel)

	// Admin routes
	mux.Handle("GET /api/v1/admin/reservations", api.WithAdminAuth(http.HandlerFunc(reservations.HandleAdminReservationsList)))
}
