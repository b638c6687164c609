// Package payments wraps the payment processor that manages customers
// and funding sources for money movement.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"finexa/internal/infrastructure/provider"
)

const (
	defaultTimeout = 30 * time.Second

	customersPath = "/customers"
)

// Client handles communication with the payment processor API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new payment processor client.
func NewClient(baseURL, key, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		key:        key,
		secret:     secret,
	}
}

// CustomerParams holds the profile fields for a personal customer record.
type CustomerParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	SSN         string `json:"ssn,omitempty"`
}

// CreateCustomer registers a customer and returns the customer URL from
// the Location header.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	return c.create(ctx, customersPath, params)
}

type fundingSourceRequest struct {
	PlaidToken string `json:"plaidToken"`
	Name       string `json:"name"`
}

// CreateFundingSource registers a bank account as a money-movement
// endpoint under the given customer, using a processor token issued by
// the aggregator. Returns the funding source URL from the Location
// header.
func (c *Client) CreateFundingSource(ctx context.Context, customerID, processorToken, name string) (string, error) {
	p := customersPath + "/" + customerID + "/funding-sources"
	return c.create(ctx, p, fundingSourceRequest{PlaidToken: processorToken, Name: name})
}

func (c *Client) create(ctx context.Context, p string, body interface{}) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+p, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")
	req.SetBasicAuth(c.key, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return "", provider.Decode("payments", resp.StatusCode, respBody, "code", "message")
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", &provider.Error{
			Service:    "payments",
			StatusCode: resp.StatusCode,
			Code:       "missing_location",
			Message:    "created resource has no Location header",
		}
	}
	return location, nil
}

// CustomerIDFromURL derives the customer id from a customer URL, e.g.
// ".../customers/abc-123" yields "abc-123".
func CustomerIDFromURL(customerURL string) string {
	trimmed := strings.TrimRight(customerURL, "/")
	return path.Base(trimmed)
}
