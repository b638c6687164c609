package main

import (
	"log"
	"net/http"

	httphandlers "finexa/internal/interfaces/http"
	"finexa/internal/shared/config"
	"finexa/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Static pages (dev only)
	mux.HandleFunc("/", httphandlers.HandleLoginPage)
	mux.HandleFunc("/login", httphandlers.HandleLoginPage)
	mux.HandleFunc("/dashboard", httphandlers.HandleDashboard)

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/sign-up", deps.AuthHandler.HandleSignUp)
	mux.HandleFunc("/api/auth/sign-in", deps.AuthHandler.HandleSignIn)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/me", deps.AuthHandler.HandleMe)

	// Protected routes
	authMiddleware := middleware.Auth(deps.Linking)

	mux.Handle("/api/linking/token", authMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleLinkToken)))
	mux.Handle("/api/linking/exchange", authMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleExchange)))
	mux.Handle("/api/linking/accounts", authMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleAccounts)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.Telemetry(middleware.CORS(cfg.Server.AllowedHosts)(mux))))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
