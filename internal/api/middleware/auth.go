package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/core"
	"github.com/edvin/clinicguard/internal/model"
)

// SessionCookie carries the session token set by /auth/login.
const SessionCookie = "session"

type contextKey string

const (
	claimsKey contextKey = "claims"
	userKey   contextKey = "user"
)

type TokenValidator interface {
	ValidateToken(token string) (*model.SessionClaims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Auth accepts the session cookie or a Bearer token, loads the user and puts
// both claims and user into the context.
func Auth(tokens TokenValidator, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				response.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			user, err := users.GetByID(r.Context(), claims.Subject)
			if errors.Is(err, core.ErrUserNotFound) {
				response.WriteError(w, http.StatusUnauthorized, "user no longer exists")
				return
			}
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("load session user")
				response.WriteError(w, http.StatusInternalServerError, "failed to load user")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// GetClaims extracts session claims from the request context.
func GetClaims(ctx context.Context) *model.SessionClaims {
	claims, _ := ctx.Value(claimsKey).(*model.SessionClaims)
	return claims
}

// GetUser returns the authenticated user, or nil.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
