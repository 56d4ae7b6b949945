package auth

import (
	"errors"
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "access_token"

// ErrNoSession is returned when the request carries no session cookie.
var ErrNoSession = errors.New("user not authenticated")

// CookieTransport sets, reads and clears the session cookie. Clear writes the
// same attributes as Set; a browser ignores a clearing cookie whose
// attributes differ from the one it holds.
type CookieTransport struct {
	domain string
	secure bool
	ttl    time.Duration
}

func NewCookieTransport(domain string, secure bool, ttl time.Duration) *CookieTransport {
	return &CookieTransport{domain: domain, secure: secure, ttl: ttl}
}

func (t *CookieTransport) base() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		Domain:   t.domain,
		Secure:   t.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// Set attaches token to the response with a max-age equal to the session TTL.
func (t *CookieTransport) Set(w http.ResponseWriter, token string) {
	c := t.base()
	c.Value = token
	c.MaxAge = int(t.ttl / time.Second)
	http.SetCookie(w, c)
}

// Clear instructs the browser to drop the session cookie.
func (t *CookieTransport) Clear(w http.ResponseWriter) {
	c := t.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// Read returns the session token carried by r.
func (t *CookieTransport) Read(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}
	return c.Value, nil
}
