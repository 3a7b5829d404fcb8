package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/keremustuner/Case-Study/pkg/logger"
)

type contextKeyType string

const newSessionKey contextKeyType = "new_session"

// SessionHeader lets script clients that do not keep cookies carry their
// session explicitly.
const SessionHeader = "X-Session-ID"

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session identifies the caller's view session. The ID is taken from the
// X-Session-ID header, then the session cookie; a missing or malformed ID is
// replaced with a fresh UUID. The cookie is re-issued on every request so its
// expiry slides with activity.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "storefront_session"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				if c, err := r.Cookie(cfg.CookieName); err == nil {
					id = c.Value
				}
			}

			isNew := false
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				isNew = true
			}

			cookie := &http.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			}
			if cfg.TTL > 0 {
				cookie.MaxAge = int(cfg.TTL.Seconds())
			}
			http.SetCookie(w, cookie)
			w.Header().Set(SessionHeader, id)

			ctx := logger.WithSessionID(r.Context(), id)
			ctx = context.WithValue(ctx, newSessionKey, isNew)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session ID set by the Session middleware.
func SessionIDFromContext(ctx context.Context) string {
	return logger.SessionIDFromContext(ctx)
}

// IsNewSession reports whether the Session middleware minted the ID on this
// request.
func IsNewSession(ctx context.Context) bool {
	v, _ := ctx.Value(newSessionKey).(bool)
	return v
}
