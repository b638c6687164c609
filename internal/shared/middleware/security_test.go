package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "empty allowed hosts returns true",
			host:         "example.com",
			allowedHosts: []string{},
			want:         true,
		},
		{
			name:         "exact match with port",
			host:         "example.com:8080",
			allowedHosts: []string{"example.com:8080"},
			want:         true,
		},
		{
			name:         "host without port matches allowed with port",
			host:         "example.com",
			allowedHosts: []string{"example.com:8080"},
			want:         true,
		},
		{
			name:         "host with port matches allowed without port",
			host:         "example.com:8080",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "localhost with port",
			host:         "localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "IPv6 loopback with port",
			host:         "[::1]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "case insensitive match",
			host:         "Example.COM:8080",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "host with whitespace",
			host:         "  example.com:8080  ",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "match second in list",
			host:         "app.example.com",
			allowedHosts: []string{"example.com", "app.example.com", "api.example.com"},
			want:         true,
		},
		{
			name:         "unknown host rejected",
			host:         "evil.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
		{
			name:         "subdomain not implied",
			host:         "sub.example.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHostAllowed(tt.host, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v", tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestHSTS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := HSTS(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	got := rr.Header().Get("Strict-Transport-Security")
	if got != "max-age=31536000; includeSubDomains" {
		t.Errorf("Strict-Transport-Security = %q", got)
	}
}

func TestSecureCookies_AddsMissingAttributes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session-token", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})

	handler := SecureCookies(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	cookies := rr.Header()["Set-Cookie"]
	if len(cookies) != 1 {
		t.Fatalf("Set-Cookie headers = %d, want 1", len(cookies))
	}

	cookie := cookies[0]
	for _, attr := range []string{"Secure", "HttpOnly", "SameSite=Strict"} {
		if !strings.Contains(cookie, attr) {
			t.Errorf("cookie %q missing %s", cookie, attr)
		}
	}
}

func TestSecureCookies_KeepsExistingAttributes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "session-token=abc; Path=/; Secure; HttpOnly; SameSite=Lax")
		w.WriteHeader(http.StatusOK)
	})

	handler := SecureCookies(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	cookie := rr.Header().Get("Set-Cookie")
	if strings.Count(cookie, "SameSite") != 1 {
		t.Errorf("cookie %q should keep its single SameSite attribute", cookie)
	}
	if strings.Count(cookie, "Secure") != 1 {
		t.Errorf("cookie %q should keep its single Secure attribute", cookie)
	}
}

func TestRequireHTTPS_RedirectsPlainHTTP(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for plain HTTP")
	})

	handler := RequireHTTPS(next)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/login", nil)
	req.URL.Scheme = ""
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "https://example.com/login" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRequireHTTPS_PreservesQueryOnRedirect(t *testing.T) {
	handler := RequireHTTPS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for plain HTTP")
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/login?next=%2Fdashboard", nil)
	req.URL.Scheme = ""
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "https://example.com/login?next=%2Fdashboard" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRequireHTTPS_ForwardedProto(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireHTTPS(next)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if !called {
		t.Error("next handler not called for forwarded HTTPS request")
	}
}
