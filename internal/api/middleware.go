// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/api/apiutil"
	"github.com/codr1/Courtbook/internal/api/auth"
	"github.com/codr1/Courtbook/internal/api/authz"
	"github.com/codr1/Courtbook/internal/ratelimit"
)

type Middleware func(http.Handler) http.Handler

type requestIDKey struct{}

func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// RequestIDFromContext returns the id assigned by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response wrapper to capture status code
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger := log.Ctx(r.Context())
				// Log the full stack trace
				stack := debug.Stack()
				logger.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				_ = apiutil.WriteJSON(w, http.StatusInternalServerError, apiutil.ErrorResponse{
					Error:   "Internal",
					Message: "Internal Server Error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		// Create a logger with the request ID
		logger := log.With().Str("request_id", requestID).Logger()

		// Add both the request ID and logger to context
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set default content type if not set
		if r.Header.Get("Accept") == "" {
			r.Header.Set("Accept", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// WithAuth attaches the bearer token's user to the request context. An
// invalid token is rejected with 401; a missing one passes through
// anonymous.
func WithAuth(verifier *auth.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := verifier.UserFromRequest(r)
			if err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Msg("Rejected bearer token")
				apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
				return
			}

			if user != nil {
				logger := log.Ctx(r.Context()).With().Int64("user_id", user.ID).Logger()
				ctx := authz.ContextWithUser(logger.WithContext(r.Context()), user)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithAdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())
		if err := authz.RequireAdmin(r.Context()); err != nil {
			switch {
			case errors.Is(err, authz.ErrUnauthenticated):
				logger.Warn().Str("path", r.URL.Path).Msg("Admin access denied: unauthenticated")
				apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
			default:
				logger.Warn().Str("path", r.URL.Path).Msg("Admin access denied: forbidden")
				apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "Forbidden", Err: err})
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WithRateLimit throttles the wrapped handler per member and client IP.
// Throttled requests get 429 with Retry-After.
func WithRateLimit(limiter *ratelimit.Limiter, trustProxy bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var memberID int64
			if user := authz.UserFromContext(r.Context()); user != nil {
				memberID = user.ID
			}
			ip := ratelimit.GetClientIP(r, trustProxy)

			res := limiter.Allow(memberID, ip)
			if !res.Allowed {
				ratelimit.LogRateLimitExceeded(r.Context(), memberID, ip, res)
				w.Header().Set("Retry-After", res.RetryAfterSeconds())
				apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusTooManyRequests, Message: "Too many reservation requests"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
