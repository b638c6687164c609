// Package bankdata wraps the financial-data aggregator that resolves a
// user's consent into access tokens and account metadata.
package bankdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finexa/internal/infrastructure/provider"
)

const (
	defaultTimeout = 30 * time.Second

	linkTokenPath      = "/link/token/create"
	exchangePath       = "/item/public_token/exchange"
	accountsPath       = "/accounts/get"
	processorTokenPath = "/processor/token/create"
)

// Client handles communication with the aggregator API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregator client.
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
	}
}

// LinkTokenParams scopes a link token to one user and one linking attempt.
type LinkTokenParams struct {
	ClientUserID string
	ClientName   string
	Products     []string
	Language     string
	CountryCodes []string
}

// ExchangeResult is the durable credential pair returned for a public token.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// Account is an aggregator-reported bank account.
type Account struct {
	ID      string `json:"account_id"`
	Name    string `json:"name"`
	Mask    string `json:"mask"`
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
}

type linkTokenRequest struct {
	ClientID     string        `json:"client_id"`
	Secret       string        `json:"secret"`
	User         linkTokenUser `json:"user"`
	ClientName   string        `json:"client_name"`
	Products     []string      `json:"products"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

// CreateLinkToken issues a short-lived token that initializes the
// client-side account-selection widget. Not persisted server-side.
func (c *Client) CreateLinkToken(ctx context.Context, params LinkTokenParams) (string, error) {
	req := linkTokenRequest{
		ClientID:     c.clientID,
		Secret:       c.secret,
		User:         linkTokenUser{ClientUserID: params.ClientUserID},
		ClientName:   params.ClientName,
		Products:     params.Products,
		Language:     params.Language,
		CountryCodes: params.CountryCodes,
	}

	var resp linkTokenResponse
	if err := c.post(ctx, linkTokenPath, req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken trades the widget's public token for an access
// token and the item id identifying the bank connection.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	req := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"public_token": publicToken,
	}

	var result ExchangeResult
	if err := c.post(ctx, exchangePath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// GetAccounts lists the accounts linked under an access token.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	req := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
	}

	var resp accountsResponse
	if err := c.post(ctx, accountsPath, req, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

type processorTokenResponse struct {
	ProcessorToken string `json:"processor_token"`
}

// CreateProcessorToken scopes an access token down to one account for
// one payment processor.
func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	req := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"account_id":   accountID,
		"processor":    processor,
	}

	var resp processorTokenResponse
	if err := c.post(ctx, processorTokenPath, req, &resp); err != nil {
		return "", err
	}
	return resp.ProcessorToken, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return provider.Decode("bankdata", resp.StatusCode, respBody, "error_code", "error_message")
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
