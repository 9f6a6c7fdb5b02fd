package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-store/atelier/internal/ctxkey"
	"github.com/atelier-store/atelier/internal/domain/policy"
	"github.com/atelier-store/atelier/internal/domain/token"
	"github.com/atelier-store/atelier/internal/domain/user"
)

// RequestIDMiddleware extracts or generates a request ID and enriches the logger.
// The request ID is stored in context using ctxkey.RequestIDKey.
// An enriched logger with request_id field is stored using ctxkey.LoggerKey.
func RequestIDMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			enrichedLogger := logger.With("request_id", requestID)

			ctx := context.WithValue(r.Context(), ctxkey.RequestIDKey{}, requestID)
			ctx = context.WithValue(ctx, ctxkey.LoggerKey{}, enrichedLogger)

			// Set response header for correlation
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFromContext retrieves the enriched logger from context.
// Returns slog.Default() if no logger is in context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.LoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// RecoveryMiddleware converts handler panics into 500 responses.
// The panic value and stack location are logged, never echoed to the client.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFromContext(r.Context()).Error("handler panic",
					"panic", rec, "method", r.Method, "path", r.URL.Path)
				respondError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// userResolver resolves a token subject to a user record.
type userResolver interface {
	GetByNumber(ctx context.Context, number string) (*user.User, error)
}

// AuthMiddleware resolves the caller from the Authorization header.
//
// A missing header leaves the request anonymous. An invalid or expired token,
// or a token whose subject no longer exists, also leaves the request anonymous
// for this stage: the policy middleware decides whether anonymity is
// acceptable for the route. Failures are logged at debug only, since
// anonymous-permitted routes would otherwise flood the log.
func AuthMiddleware(codec *token.Codec, users userResolver, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			logger := LoggerFromContext(r.Context())

			subject, err := codec.Validate(strings.TrimPrefix(auth, "Bearer "), time.Now().UTC())
			if err != nil {
				if metrics != nil {
					metrics.TokenRejections.WithLabelValues(tokenErrorLabel(err)).Inc()
				}
				logger.Debug("bearer token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByNumber(r.Context(), subject)
			if err != nil {
				logger.Debug("token subject not resolvable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUser(r.Context(), u)))
		})
	}
}

// tokenErrorLabel maps a token validation error to a metrics label.
func tokenErrorLabel(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "signature"
	default:
		return "malformed"
	}
}

// PolicyMiddleware evaluates the access rule table for every request and
// rejects it before the handler runs when the decision is not Permit.
func PolicyMiddleware(engine *policy.Engine, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := engine.Decide(r.URL.Path, r.Method, UserFromContext(r.Context()))
			if metrics != nil {
				metrics.PolicyDecisions.WithLabelValues(decision.String()).Inc()
			}

			switch decision {
			case policy.Permit:
				next.ServeHTTP(w, r)
			case policy.Unauthorized:
				LoggerFromContext(r.Context()).Warn("request rejected, authentication required",
					"method", r.Method, "path", r.URL.Path)
				respondError(w, http.StatusUnauthorized, "authentication required")
			default:
				LoggerFromContext(r.Context()).Warn("request rejected, insufficient role",
					"method", r.Method, "path", r.URL.Path)
				respondError(w, http.StatusForbidden, "insufficient permissions")
			}
		})
	}
}
