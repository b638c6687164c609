package http

import (
	"net/http"

	"finexa/internal/web"
)

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// HandleLoginPage serves the sign-in / sign-up page.
// Dev only - static HTML file serving.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.FS, "login.html")
}

// HandleDashboard serves the linked-accounts dashboard page.
// Dev only - static HTML file serving.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.FS, "dashboard.html")
}
