package middleware

import (
	"context"
	"net/http"
	"strings"

	"bolpur-mart/internal/auth"
	"bolpur-mart/internal/model"

	"github.com/rs/zerolog"
)

// AccessTokenCookie is the cookie browsers carry the access token in.
const AccessTokenCookie = "access_token"

type contextKey string

const userContextKey contextKey = "user"

// TokenValidator checks an access token and returns its claims.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// ExtractToken returns the bearer token from the Authorization header, or
// from the access token cookie when there is no header.
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// OptionalAuth adds the user's claims to the context when a valid token is
// present. Requests without one continue as guests.
func OptionalAuth(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				claims, err := validator.ValidateAccessToken(token)
				if err != nil {
					logger.Debug().Err(err).Str("path", r.URL.Path).Msg("ignoring invalid access token")
				} else {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that carry no valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthenticated.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// ClaimsFrom retrieves user claims from the request context.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*auth.Claims)
	return claims, ok
}

// UserID returns the authenticated user's id, or "" for guests.
func UserID(ctx context.Context) string {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(ctx context.Context) bool {
	claims, ok := ClaimsFrom(ctx)
	return ok && claims.Role == auth.RoleAdmin
}

// GuestID returns the guest session id named by the request.
func GuestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(GuestIDHeader))
}
