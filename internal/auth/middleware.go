// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Extracts bearer tokens and attaches a Principal to the request context

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/studiod/studiod/internal/store"
)

// UserLookup resolves a username (email) to its stored user record.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that attempts JWT auth but allows
// unauthenticated requests through. A missing header, invalid token, failed
// user lookup, or any panic while resolving the principal all continue the
// request anonymously; rejection is left to downstream authorization checks.
func Middleware(users UserLookup, codec *TokenCodec) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				next.ServeHTTP(w, r) // Continue as anonymous
				return
			}

			principal := resolvePrincipal(r.Context(), users, codec, token, logger)
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// resolvePrincipal validates the token and looks up the full user record.
// Returns nil on any failure; panics are recovered and treated the same as
// an invalid token so the request pipeline never faults here.
func resolvePrincipal(ctx context.Context, users UserLookup, codec *TokenCodec, token string, logger *slog.Logger) (principal *Principal) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("panic while resolving principal", "panic", rec)
			principal = nil
		}
	}()

	if !codec.Validate(token) {
		return nil
	}

	username, err := codec.Subject(token)
	if err != nil {
		return nil
	}

	user, err := users.GetUserByEmail(ctx, username)
	if err != nil {
		return nil
	}

	return &Principal{
		ID:       user.ID,
		Username: user.Email,
		Admin:    user.Admin,
	}
}

// RequireAuth creates an HTTP middleware that rejects requests without an
// authenticated Principal. Must be used after Middleware.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r.Context()) == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
