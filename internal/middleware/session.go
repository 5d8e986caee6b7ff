// Package middleware provides HTTP middlewares for session resolution and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/ShopKeeper/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionSource reports the active session user, or nil when logged out.
type SessionSource interface {
	ActiveSession(ctx context.Context) *models.User
}

// WithSession resolves the active session on every request and stores its
// user ID in the request context, so list handlers can use it as the
// namespace. When nobody is logged in the ID is empty, which selects the
// anonymous namespace.
func WithSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := ""
			if u := sessions.ActiveSession(r.Context()); u != nil {
				userID = u.ID
			}
			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the user ID set by WithSession.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
