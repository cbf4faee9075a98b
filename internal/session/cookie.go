package session

import (
	"net/http"
	"time"
)

// CookieName carries the __Host- prefix, so the cookie is always issued
// Secure, host-only and for Path=/.
const (
	CookieName = "__Host-session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	SameSite http.SameSite
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/" // required for __Host-
	}
	if !o.HttpOnly {
		o.HttpOnly = true // secure default
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetCookie issues the session cookie to the client.
func SetCookie(
	w http.ResponseWriter,
	sessionID string,
	expiresAt time.Time,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     opts.Path,
		Expires:  expiresAt,
		HttpOnly: opts.HttpOnly,
		Secure:   true,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(
	w http.ResponseWriter,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   true,
		SameSite: opts.SameSite,
	})
}

// IDFromRequest returns the session id carried by the request cookie, or "".
func IDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
