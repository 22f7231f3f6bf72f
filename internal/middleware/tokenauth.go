package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/toolhub/toolhub/internal/models"
	"github.com/toolhub/toolhub/internal/repo"
)

type key string

const userKey key = "user"

// authScheme is the Authorization header scheme for catalog tokens.
const authScheme = "Token "

// TokenAuth validates the "Authorization: Token <key>" header against the
// token store and attaches the resolved user to the request context. Every
// authentication failure (missing header, unknown key, inactive user) gets the
// same 401 body so the response reveals nothing about why the lookup failed.
// The lookup is a pure read: tokens are never refreshed or rotated here.
func TokenAuth(tokens *repo.TokenRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, authScheme) {
				unauthorized(w)
				return
			}
			tokenKey := header[len(authScheme):]
			if tokenKey == "" {
				unauthorized(w)
				return
			}

			user, err := tokens.GetUserByKey(r.Context(), tokenKey)
			if err == sql.ErrNoRows {
				unauthorized(w)
				return
			}
			if err != nil {
				slog.Error("token lookup failed", "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
				return
			}
			if !user.IsActive {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects requests whose authenticated user is not staff.
// Must run after TokenAuth.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok || !user.IsStaff {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser returns the authenticated user stored by TokenAuth.
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// GetUserID returns the authenticated user's ID, for audit logging.
func GetUserID(ctx context.Context) (int, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing token"})
}
