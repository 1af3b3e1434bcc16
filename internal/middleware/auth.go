// Package middleware provides session-resolution middleware for the HTTP
// surface.
package middleware

import (
	"context"
	"net/http"

	"github.com/willemvz/invoice-tracker/internal/auth"
	"github.com/willemvz/invoice-tracker/internal/logging"
	"github.com/willemvz/invoice-tracker/internal/models"
)

// SessionResolver resolves a session token to a user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type userKey struct{}

// UserFrom returns the authenticated user stored in the context, or nil.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

// LoadUser resolves the session cookie on every request and, when it maps
// to an existing user, stores that user in the request context. Requests
// without a valid session pass through unauthenticated; store failures are
// logged and treated the same way.
func LoadUser(sessions SessionResolver, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err == nil && cookie.Value != "" {
				user, err := sessions.Resolve(r.Context(), cookie.Value)
				if err != nil {
					log.Error(r.Context(), "resolve session", "err", err)
				} else if user != nil {
					r = r.WithContext(context.WithValue(r.Context(), userKey{}, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects unauthenticated requests to the login page. It must
// run after LoadUser.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
