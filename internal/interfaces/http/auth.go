package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"finexa/internal/domain/linking"
	"finexa/internal/shared/session"
)

// AuthService is the consumer-side slice of the linking orchestrator
// that the auth endpoints need.
type AuthService interface {
	SignIn(ctx context.Context, sess session.Context, email, password string) (*linking.User, error)
	SignUp(ctx context.Context, sess session.Context, params linking.SignUpParams) (*linking.User, error)
	LoggedInUser(ctx context.Context, sess session.Context) (*linking.User, error)
	Logout(ctx context.Context, sess session.Context) error
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp creates a new account and signs the user in.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req linking.SignUpParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "Email, password, first name, and last name are required")
		return
	}

	user, err := h.service.SignUp(r.Context(), session.New(w, r), req)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleSignIn authenticates with email and password.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.SignIn(r.Context(), session.New(w, r), req.Email, req.Password)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleMe returns the signed-in user for the current session.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := h.service.LoggedInUser(r.Context(), session.New(w, r))
	if err != nil {
		log.Printf("Me: resolving session failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout ends the session and clears the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.Logout(r.Context(), session.New(w, r)); err != nil {
		log.Printf("Logout failed: %v", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the orchestrator's error taxonomy to HTTP status
// codes.
func statusForError(err error) int {
	switch linking.CodeOf(err) {
	case linking.CodeAuthentication:
		return http.StatusUnauthorized
	case linking.CodeAccountExists:
		return http.StatusConflict
	case linking.CodeValidation:
		return http.StatusBadRequest
	case linking.CodeConfiguration:
		return http.StatusInternalServerError
	case linking.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
