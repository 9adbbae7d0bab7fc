package middleware

import (
	"net/http"

	"github.com/mhallsworth/sessiongate/session"
)

// DefaultCookieName is used when Options.CookieName is empty.
const DefaultCookieName = "sg_session"

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if !o.HttpOnly {
		o.HttpOnly = true
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetSessionCookie writes the signed session token to the client. For a
// persistent record the cookie carries the record's absolute deadline as its
// Expires; otherwise it is a browser-session cookie.
func SetSessionCookie(w http.ResponseWriter, name, token string, rec *session.Record, opts CookieOptions) {
	opts = opts.normalize()

	cookie := &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     opts.Path,
		Domain:   opts.Domain,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
	if rec != nil && rec.Persistent {
		cookie.Expires = rec.ExpiresAt
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(w http.ResponseWriter, name string, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
