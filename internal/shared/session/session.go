// Package session is the explicit boundary around the HTTP session
// cookie. Orchestrator operations receive a Context instead of reading
// the cookie jar ambiently.
package session

import "net/http"

// CookieName is the session cookie slot. One active session per browser.
const CookieName = "session-token"

// Context reads and writes the session secret for a single request.
type Context interface {
	// Get returns the current session secret, or ok=false when absent.
	Get() (secret string, ok bool)
	// Set writes the secret with fixed security attributes.
	Set(secret string)
	// Clear removes the cookie.
	Clear()
}

type httpContext struct {
	w http.ResponseWriter
	r *http.Request
}

// New returns a Context bound to an HTTP exchange.
func New(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{w: w, r: r}
}

func (c *httpContext) Get() (string, bool) {
	cookie, err := c.r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Set writes the cookie host-only (no Domain attribute), script-hidden,
// same-site strict, and restricted to encrypted transport.
func (c *httpContext) Set(secret string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c *httpContext) Clear() {
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Memory is an in-process Context for tests and non-HTTP callers.
type Memory struct {
	secret string
	ok     bool
}

func (m *Memory) Get() (string, bool) { return m.secret, m.ok }

func (m *Memory) Set(secret string) {
	m.secret = secret
	m.ok = true
}

func (m *Memory) Clear() {
	m.secret = ""
	m.ok = false
}
