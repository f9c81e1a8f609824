package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
)

// DefaultCookieName is the session cookie name existing browsers already hold.
const DefaultCookieName = "authToken"

// Cookies issues and clears the session cookie.
type Cookies struct {
	Name string

	// Secure marks the cookie HTTPS-only. Off by default so plain-HTTP
	// deployments keep working; turn it on behind TLS.
	Secure bool
}

func (c Cookies) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// Token returns the session token presented with r, or "".
func (c Cookies) Token(r *http.Request) string {
	ck, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	return ck.Value
}

// Set writes the cookie for sess; it expires with the session.
func (c Cookies) Set(w http.ResponseWriter, sess domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
	})
}

// Clear tells the browser to drop the cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
	})
}
