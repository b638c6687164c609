package bankdata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finexa/internal/infrastructure/provider"
)

func TestCreateLinkToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/link/token/create" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req linkTokenRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ClientID != "cid" || req.Secret != "sec" {
			t.Error("request missing client credentials")
		}
		if req.User.ClientUserID != "u1" {
			t.Errorf("client_user_id = %q, want u1", req.User.ClientUserID)
		}
		if len(req.Products) != 1 || req.Products[0] != "auth" {
			t.Errorf("products = %v, want [auth]", req.Products)
		}

		json.NewEncoder(w).Encode(linkTokenResponse{LinkToken: "link-token-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "cid", "sec")
	token, err := client.CreateLinkToken(context.Background(), LinkTokenParams{
		ClientUserID: "u1",
		ClientName:   "A B",
		Products:     []string{"auth"},
		Language:     "en",
		CountryCodes: []string{"US"},
	})
	if err != nil {
		t.Fatalf("CreateLinkToken() failed: %v", err)
	}
	if token != "link-token-1" {
		t.Errorf("token = %q, want link-token-1", token)
	}
}

func TestExchangePublicToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ExchangeResult{AccessToken: "access-1", ItemID: "item-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "cid", "sec")
	result, err := client.ExchangePublicToken(context.Background(), "public-1")
	if err != nil {
		t.Fatalf("ExchangePublicToken() failed: %v", err)
	}
	if result.AccessToken != "access-1" || result.ItemID != "item-1" {
		t.Errorf("result = %+v", result)
	}
}

func TestGetAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(accountsResponse{Accounts: []Account{
			{ID: "acc1", Name: "Checking", Type: "depository", Subtype: "checking"},
			{ID: "acc2", Name: "Savings"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "cid", "sec")
	accounts, err := client.GetAccounts(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("GetAccounts() failed: %v", err)
	}
	if len(accounts) != 2 || accounts[0].ID != "acc1" {
		t.Errorf("accounts = %+v", accounts)
	}
}

func TestCreateProcessorToken_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error_code":"INTERNAL_SERVER_ERROR","error_message":"server error"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "cid", "sec")
	_, err := client.CreateProcessorToken(context.Background(), "access-1", "acc1", "dwolla")
	if err == nil {
		t.Fatal("CreateProcessorToken() expected error, got nil")
	}

	var pe *provider.Error
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not *provider.Error", err)
	}
	if pe.Code != "INTERNAL_SERVER_ERROR" {
		t.Errorf("Code = %q", pe.Code)
	}
	if pe.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", pe.StatusCode)
	}
}
