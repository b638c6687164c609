package http

import (
	"context"
	"encoding/json"
	"net/http"

	"finexa/internal/domain/linking"
	"finexa/internal/shared/middleware"
)

// LinkingService is the slice of the orchestrator behind the
// bank-linking endpoints. All operations act on the authenticated user.
type LinkingService interface {
	CreateLinkToken(ctx context.Context, user *linking.User) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string, user *linking.User) (*linking.LinkResult, error)
	AccountsView(ctx context.Context, user *linking.User) ([]linking.AccountSummary, error)
}

type LinkingHandler struct {
	service LinkingService
}

func NewLinkingHandler(service LinkingService) *LinkingHandler {
	return &LinkingHandler{service: service}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleLinkToken requests a token for the aggregator's linking widget.
// An empty token means linking is temporarily unavailable.
func (h *LinkingHandler) HandleLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := middleware.UserFrom(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	token, err := h.service.CreateLinkToken(r.Context(), user)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// HandleExchange completes the linking flow for a public token handed
// back by the widget.
func (h *LinkingHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := middleware.UserFrom(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PublicToken == "" {
		writeError(w, http.StatusBadRequest, "Public token is required")
		return
	}

	result, err := h.service.ExchangePublicToken(r.Context(), req.PublicToken, user)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleAccounts lists the user's linked accounts.
func (h *LinkingHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := middleware.UserFrom(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	accounts, err := h.service.AccountsView(r.Context(), user)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}
