package middleware

import (
	"context"
	"net/http"

	"github.com/Shadpls/Eat-Already/internal/components/session"
	"github.com/Shadpls/Eat-Already/internal/shared/cookie"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const sessionKey contextKey = "session"

// SessionFrom extracts the session from the request context. It returns nil
// outside of RequireSession-protected routes.
func SessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// WithSession puts a session on the context; used by tests and by handlers
// that resolve a session outside the middleware.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// RequireSession protects routes from unauthenticated access: it decrypts the
// session cookie, loads the session from the store, and redirects to /login
// when either step fails. This is the only access-control rule in the system.
func RequireSession(store session.Store, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := cookie.Get(r, secret)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			sess, err := store.Get(r.Context(), id)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
