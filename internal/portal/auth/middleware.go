package auth

import (
	"context"
	"net/http"

	"github.com/psgplacements/interview-platform/internal/portal/models"
)

// Session is the authenticated caller attached to the request context.
type Session struct {
	UserID string
	Email  string
	Role   models.Role
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type contextKey string

const sessionContextKey contextKey = "session"

// Middleware validates the session cookie when present and attaches the
// session to the context. Requests without a valid session pass through
// unauthenticated; enforcement happens per route.
func Middleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validateToken(cookie.Value, jwtSecret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session := &Session{}
			if sub, ok := claims["sub"].(string); ok {
				session.UserID = sub
			}
			if email, ok := claims["email"].(string); ok {
				session.Email = email
			}
			if role, ok := claims["role"].(string); ok {
				session.Role = models.Role(role)
			}
			if session.UserID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	return session, ok
}

// WithSession returns a context carrying the given session. Used by tests
// and the dev token service.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}
