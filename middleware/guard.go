package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/mhallsworth/sessiongate"
	"github.com/mhallsworth/sessiongate/session"
)

// unexported, collision-proof context keys
type usernameContextKey struct{}
type recordContextKey struct{}

// UsernameFromContext extracts the authenticated username from a request
// that passed the guard.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameContextKey{}).(string)
	return name, ok
}

// RecordFromContext extracts the admitted session record.
func RecordFromContext(ctx context.Context) (*session.Record, bool) {
	rec, ok := ctx.Value(recordContextKey{}).(*session.Record)
	return rec, ok
}

// Options configures the guard's cookie and its denial target.
type Options struct {
	// CookieName defaults to DefaultCookieName.
	CookieName string
	// LoginURL is where every denial redirects. Defaults to "/login".
	LoginURL string
	Cookie   CookieOptions
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.LoginURL == "" {
		o.LoginURL = "/login"
	}
	return o
}

// Guard returns middleware that gates the wrapped handler behind a valid
// session. Every denial — missing cookie, bad signature, expiry, revoked
// identity — redirects to the login URL with the stale cookie cleared; a
// silently renewed session is re-signed and re-set before the handler runs.
// Store connectivity failure is the one case that is not a redirect: it is a
// 503, because sending a logged-in user to the login form cannot fix it.
func Guard(engine *sessiongate.Engine, opts Options) func(http.Handler) http.Handler {
	opts = opts.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Redirect(w, r, opts.LoginURL, http.StatusFound)
				return
			}

			cookie, err := r.Cookie(opts.CookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, opts.LoginURL, http.StatusFound)
				return
			}

			rec, err := engine.ParseSession(cookie.Value)
			if err != nil {
				ClearSessionCookie(w, opts.CookieName, opts.Cookie)
				http.Redirect(w, r, opts.LoginURL, http.StatusFound)
				return
			}

			dec, err := engine.Authenticate(r.Context(), rec)
			if err != nil && errors.Is(err, sessiongate.ErrStoreUnavailable) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			if !dec.Admitted() {
				ClearSessionCookie(w, opts.CookieName, opts.Cookie)
				http.Redirect(w, r, opts.LoginURL, http.StatusFound)
				return
			}

			if dec.Renewed {
				token, err := engine.SignSession(rec)
				if err == nil {
					SetSessionCookie(w, opts.CookieName, token, rec, opts.Cookie)
				}
			}

			ctx := context.WithValue(r.Context(), usernameContextKey{}, rec.Username)
			ctx = context.WithValue(ctx, recordContextKey{}, rec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
