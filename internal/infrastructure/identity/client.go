// Package identity wraps the external identity service that owns user
// accounts and authenticated sessions.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"finexa/internal/infrastructure/provider"
)

const (
	defaultTimeout = 30 * time.Second

	accountPath        = "/account"
	emailSessionPath   = "/account/sessions/email"
	currentSessionPath = "/account/sessions/current"
)

// Client handles communication with the identity service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
	apiKey     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new identity service client.
func NewClient(baseURL, projectID, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		projectID:  projectID,
		apiKey:     apiKey,
	}
}

// Account is an identity-service user account.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an identity-service session. Secret is the opaque value
// carried in the session cookie.
type Session struct {
	Secret string `json:"secret"`
	UserID string `json:"userId"`
}

// CreateAccountParams holds the fields for account creation.
type CreateAccountParams struct {
	Email    string
	Password string
	Name     string
}

// CreateAccount registers a new account with a generated unique id.
// Known error codes: "user_already_exists", "password_weak",
// "email_invalid".
func (c *Client) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	body := map[string]string{
		"userId":   uuid.NewString(),
		"email":    params.Email,
		"password": params.Password,
		"name":     params.Name,
	}

	var account Account
	if err := c.do(ctx, http.MethodPost, accountPath, "", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateEmailSession verifies credentials and returns a session.
// Rejected credentials surface as code "user_invalid_credentials"
// regardless of whether the email or the password was wrong.
func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, emailSessionPath, "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetAccount resolves a session secret to its account.
func (c *Client) GetAccount(ctx context.Context, sessionSecret string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, accountPath, sessionSecret, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteSession invalidates the session identified by the secret.
func (c *Client) DeleteSession(ctx context.Context, sessionSecret string) error {
	return c.do(ctx, http.MethodDelete, currentSessionPath, sessionSecret, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, sessionSecret string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Finexa-Project", c.projectID)
	if sessionSecret != "" {
		// Session-scoped call: act as the signed-in user.
		req.Header.Set("X-Finexa-Session", sessionSecret)
	} else {
		// Admin-scoped call.
		req.Header.Set("X-Finexa-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return provider.Decode("identity", resp.StatusCode, respBody, "type", "message")
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
