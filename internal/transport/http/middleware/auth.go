package middleware

import (
	"context"
	"errors"
	"net/http"

	"warbler/internal/model"
	"warbler/internal/repository"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userContextKey holds the resolved *model.User for authenticated requests.
const userContextKey contextKey = "current_user"

// CurrentUser resolves the session's auth marker into a user and stores it
// in the request context. A marker that no longer resolves to an existing
// user leaves the request anonymous and drops the stale marker, so deleted
// accounts cannot act through leftover cookies.
func CurrentUser(sess *Sessions, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := sess.UserID(r); ok {
				user, err := users.GetByID(r.Context(), id)
				switch {
				case err == nil:
					ctx := context.WithValue(r.Context(), userContextKey, user)
					r = r.WithContext(ctx)
				case errors.Is(err, model.ErrUserNotFound):
					_ = sess.Logout(w, r)
				default:
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
// ok is false for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// RequireAuth is the authorization guard on mutating and privacy-sensitive
// routes: anonymous requests get the unauthorized flash and a redirect home,
// and never reach the handler.
func RequireAuth(sess *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				sess.Flash(w, r, FlashAccessUnauthorized)
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
