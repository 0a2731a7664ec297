package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const sessionContextKey contextKey = "session_id"

// SessionHeader carries the caller's session id on requests and responses.
const SessionHeader = "X-Session-ID"

// Session resolves the caller's session id from the X-Session-ID header or
// the session_id query parameter, minting a fresh UUID when neither is
// present. The resolved id is echoed on every response so clients can
// persist it.
type Session struct{}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = r.URL.Query().Get("session_id")
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		w.Header().Set(SessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
	})
}

// WithSessionID stores a session id the way Session does.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionID returns the session id resolved by Session, or "" when the
// middleware did not run.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}
