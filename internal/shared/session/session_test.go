package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPContext_SetAttributes(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	sess := New(rr, req)
	sess.Set("secret-value")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != CookieName {
		t.Errorf("cookie name = %q, want %q", c.Name, CookieName)
	}
	if c.Value != "secret-value" {
		t.Errorf("cookie value = %q, want %q", c.Value, "secret-value")
	}
	if c.Path != "/" {
		t.Errorf("cookie path = %q, want %q", c.Path, "/")
	}
	if !c.HttpOnly {
		t.Error("cookie is script-readable, want HttpOnly")
	}
	if !c.Secure {
		t.Error("cookie missing Secure attribute")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie SameSite = %v, want Strict", c.SameSite)
	}
	if c.Domain != "" {
		t.Errorf("cookie Domain = %q, want host-only (empty)", c.Domain)
	}
}

func TestHTTPContext_Get(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc123"})

	sess := New(httptest.NewRecorder(), req)
	secret, ok := sess.Get()
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if secret != "abc123" {
		t.Errorf("Get() = %q, want %q", secret, "abc123")
	}
}

func TestHTTPContext_GetAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	sess := New(httptest.NewRecorder(), req)
	if _, ok := sess.Get(); ok {
		t.Error("Get() ok = true for request without cookie")
	}
}

func TestHTTPContext_Clear(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	sess := New(rr, req)
	sess.Clear()

	setCookie := rr.Header().Get("Set-Cookie")
	if !strings.Contains(setCookie, CookieName+"=") {
		t.Fatalf("Clear() did not write a Set-Cookie header: %q", setCookie)
	}
	if !strings.Contains(setCookie, "Max-Age=0") {
		t.Errorf("Clear() cookie not expired: %q", setCookie)
	}
}

func TestMemory(t *testing.T) {
	var m Memory

	if _, ok := m.Get(); ok {
		t.Error("empty Memory reported a session")
	}

	m.Set("s1")
	secret, ok := m.Get()
	if !ok || secret != "s1" {
		t.Errorf("Get() = %q, %v after Set", secret, ok)
	}

	m.Clear()
	if _, ok := m.Get(); ok {
		t.Error("Memory reported a session after Clear")
	}
}
