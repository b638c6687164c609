// Package linking orchestrates sign-up, sign-in, and the multi-step
// bank-account linking flow across the identity service, the bank-data
// aggregator, the payment processor, and the record store.
package linking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finexa/internal/infrastructure/bankdata"
	"finexa/internal/infrastructure/crypto"
	"finexa/internal/infrastructure/identity"
	"finexa/internal/infrastructure/payments"
	"finexa/internal/infrastructure/provider"
	"finexa/internal/infrastructure/records"
	"finexa/internal/shared/session"
)

// FailureMode selects what happens when a historically-swallowed call
// fails: degrade (log, return empty) or fail (surface an error).
type FailureMode string

const (
	FailureDegrade FailureMode = "degrade"
	FailureFail    FailureMode = "fail"
)

// processorName scopes aggregator processor tokens to the payment
// processor in use.
const processorName = "dwolla"

// Settings is the orchestrator configuration, validated at sign-up
// entry before any external call is made.
type Settings struct {
	UserCollection   string
	BankCollection   string
	LinkTokenFailure FailureMode
	AccountViewTTL   time.Duration
}

func (s Settings) validate() error {
	if s.UserCollection == "" || s.BankCollection == "" {
		return newError(CodeConfiguration, "Service is not configured. Please try again later.", nil)
	}
	return nil
}

// Service sequences the external clients. Each operation runs to
// completion or failure within one request; there is no rollback of
// steps already issued to external services.
type Service struct {
	identity  identity.ClientInterface
	bankdata  bankdata.ClientInterface
	payments  payments.ClientInterface
	records   records.StoreInterface
	encryptor *crypto.Encryptor
	settings  Settings
	views     *viewCache
}

// NewService creates the account-linking orchestrator.
func NewService(
	identityClient identity.ClientInterface,
	bankdataClient bankdata.ClientInterface,
	paymentsClient payments.ClientInterface,
	recordStore records.StoreInterface,
	encryptor *crypto.Encryptor,
	settings Settings,
) *Service {
	if settings.LinkTokenFailure == "" {
		settings.LinkTokenFailure = FailureDegrade
	}
	if settings.AccountViewTTL <= 0 {
		settings.AccountViewTTL = 5 * time.Minute
	}
	return &Service{
		identity:  identityClient,
		bankdata:  bankdataClient,
		payments:  paymentsClient,
		records:   recordStore,
		encryptor: encryptor,
		settings:  settings,
		views:     newViewCache(settings.AccountViewTTL),
	}
}

// SignIn verifies credentials with the identity service, sets the
// session cookie, and returns the user joined with their profile
// document. The failure message never reveals whether the email or the
// password was wrong.
func (s *Service) SignIn(ctx context.Context, sess session.Context, email, password string) (*User, error) {
	is, err := s.identity.CreateEmailSession(ctx, email, password)
	if err != nil {
		log.Printf("Sign in rejected: %v", err)
		return nil, newError(CodeAuthentication, "Invalid email or password.", err)
	}

	sess.Set(is.Secret)

	user := &User{ID: is.UserID, Email: email}
	profile, err := s.records.GetUserProfile(ctx, is.UserID)
	if err != nil {
		log.Printf("Sign in: profile lookup failed for %s: %v", is.UserID, err)
		return user, nil
	}
	if profile != nil {
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		user.DwollaCustomerID = profile.DwollaCustomerID
		user.DwollaCustomerURL = profile.DwollaCustomerURL
	}
	return user, nil
}

// SignUp creates the identity account, the payment customer, and the
// profile document, then establishes a session. Steps already completed
// are not rolled back when a later step fails; the wrapped cause names
// the failed step so partial state is visible in logs.
func (s *Service) SignUp(ctx context.Context, sess session.Context, params SignUpParams) (*User, error) {
	if err := s.settings.validate(); err != nil {
		return nil, err
	}

	account, err := s.identity.CreateAccount(ctx, identity.CreateAccountParams{
		Email:    params.Email,
		Password: params.Password,
		Name:     params.FirstName + " " + params.LastName,
	})
	if err != nil {
		log.Printf("Sign up: identity account creation failed: %v", err)
		return nil, classifySignUpError(err)
	}

	customerURL, err := s.payments.CreateCustomer(ctx, payments.CustomerParams{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Type:        "personal",
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		log.Printf("Sign up: payment customer creation failed after identity account %s was created: %v", account.ID, err)
		return nil, newError(CodeExternalService, "Failed to create account. Please try again.",
			fmt.Errorf("create payment customer: %w", err))
	}
	customerID := payments.CustomerIDFromURL(customerURL)

	profile, err := s.records.CreateUserProfile(ctx, records.Profile{
		UserID:            account.ID,
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		DwollaCustomerID:  customerID,
		DwollaCustomerURL: customerURL,
	})
	if err != nil {
		log.Printf("Sign up: profile document creation failed after identity account %s and payment customer %s were created: %v",
			account.ID, customerID, err)
		return nil, newError(CodeExternalService, "Failed to create account. Please try again.",
			fmt.Errorf("create profile document: %w", err))
	}

	is, err := s.identity.CreateEmailSession(ctx, params.Email, params.Password)
	if err != nil {
		log.Printf("Sign up: session creation failed for new account %s: %v", account.ID, err)
		return nil, newError(CodeExternalService, "Account created but sign in failed. Please sign in.",
			fmt.Errorf("create session: %w", err))
	}
	sess.Set(is.Secret)

	return &User{
		ID:                account.ID,
		Email:             profile.Email,
		FirstName:         profile.FirstName,
		LastName:          profile.LastName,
		DwollaCustomerID:  profile.DwollaCustomerID,
		DwollaCustomerURL: profile.DwollaCustomerURL,
	}, nil
}

// LoggedInUser resolves the session cookie to the signed-in user, or
// nil when there is no usable session.
func (s *Service) LoggedInUser(ctx context.Context, sess session.Context) (*User, error) {
	secret, ok := sess.Get()
	if !ok {
		return nil, nil
	}

	account, err := s.identity.GetAccount(ctx, secret)
	if err != nil {
		log.Printf("Get user: session rejected by identity service: %v", err)
		return nil, nil
	}

	user := &User{ID: account.ID, Email: account.Email}

	profile, err := s.records.GetUserProfile(ctx, account.ID)
	if err != nil {
		log.Printf("Get user: profile lookup failed for %s: %v", account.ID, err)
		return user, nil
	}
	if profile != nil {
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		user.DwollaCustomerID = profile.DwollaCustomerID
		user.DwollaCustomerURL = profile.DwollaCustomerURL
	}
	return user, nil
}

// Logout clears the session cookie unconditionally. A failed
// delete-session call degrades to "forget locally".
func (s *Service) Logout(ctx context.Context, sess session.Context) error {
	secret, ok := sess.Get()
	sess.Clear()

	if ok {
		if err := s.identity.DeleteSession(ctx, secret); err != nil {
			log.Printf("Logout: session deletion failed (cookie cleared anyway): %v", err)
		}
	}
	return nil
}

// CreateLinkToken requests a link token for the user. Under the degrade
// policy an aggregator failure yields an empty token with no error;
// callers treat that as "linking unavailable, retry".
func (s *Service) CreateLinkToken(ctx context.Context, user *User) (string, error) {
	token, err := s.bankdata.CreateLinkToken(ctx, bankdata.LinkTokenParams{
		ClientUserID: user.ID,
		ClientName:   user.DisplayName(),
		Products:     []string{"auth"},
		Language:     "en",
		CountryCodes: []string{"US"},
	})
	if err != nil {
		if s.settings.LinkTokenFailure == FailureFail {
			return "", newError(CodeExternalService, "Bank linking is unavailable. Please try again.", err)
		}
		log.Printf("Link token creation failed (degrading to empty token): %v", err)
		return "", nil
	}
	return token, nil
}

// ExchangePublicToken runs the linking handshake: public token →
// access token + item id → first account → processor token → funding
// source → bank account record. Nothing is persisted unless a funding
// source URL was obtained. A repeated exchange for the same
// (user, account) pair is answered from the existing record.
func (s *Service) ExchangePublicToken(ctx context.Context, publicToken string, user *User) (*LinkResult, error) {
	exchange, err := s.bankdata.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, linkFailure("exchange public token", err)
	}

	accounts, err := s.bankdata.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return nil, linkFailure("fetch linked accounts", err)
	}
	if len(accounts) == 0 {
		return nil, newError(CodeExternalService, "Failed to link bank account. Please try again.",
			fmt.Errorf("aggregator returned no accounts for item %s", exchange.ItemID))
	}
	account := accounts[0]

	processorToken, err := s.bankdata.CreateProcessorToken(ctx, exchange.AccessToken, account.ID, processorName)
	if err != nil {
		return nil, linkFailure("create processor token", err)
	}

	fundingSourceURL, err := s.payments.CreateFundingSource(ctx, user.DwollaCustomerID, processorToken, account.Name)
	if err != nil {
		return nil, linkFailure("create funding source", err)
	}
	if fundingSourceURL == "" {
		return nil, newError(CodeExternalService, "Failed to link bank account. Please try again.",
			fmt.Errorf("payment processor returned no funding source URL for account %s", account.ID))
	}

	existing, err := s.records.FindBankAccount(ctx, user.ID, account.ID)
	if err != nil {
		return nil, linkFailure("check existing bank record", err)
	}
	if existing != nil {
		log.Printf("Exchange: bank account %s already linked for user %s, skipping duplicate record", account.ID, user.ID)
		s.views.invalidate(user.ID)
		return &LinkResult{PublicTokenExchange: "complete"}, nil
	}

	shareableID, err := s.encryptor.EncryptDeterministic(account.ID)
	if err != nil {
		return nil, linkFailure("derive shareable id", err)
	}

	if _, err := s.records.CreateBankAccount(ctx, records.BankAccount{
		UserID:           user.ID,
		BankID:           exchange.ItemID,
		AccountID:        account.ID,
		AccessToken:      exchange.AccessToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      shareableID,
	}); err != nil {
		// The funding source exists at this point; losing the record
		// silently would strand it, so this failure always surfaces.
		return nil, linkFailure("persist bank account record", err)
	}

	s.views.invalidate(user.ID)
	return &LinkResult{PublicTokenExchange: "complete"}, nil
}

// AccountsView returns the user's linked accounts enriched with
// aggregator metadata, served from the per-user cache when fresh.
func (s *Service) AccountsView(ctx context.Context, user *User) ([]AccountSummary, error) {
	if view, ok := s.views.get(user.ID); ok {
		return view, nil
	}

	bankRecords, err := s.records.ListBankAccounts(ctx, user.ID)
	if err != nil {
		return nil, newError(CodeExternalService, "Failed to load accounts. Please try again.", err)
	}

	view := make([]AccountSummary, 0, len(bankRecords))
	for _, rec := range bankRecords {
		summary := AccountSummary{
			AccountID:        rec.AccountID,
			ShareableID:      rec.ShareableID,
			FundingSourceURL: rec.FundingSourceURL,
		}

		accounts, err := s.bankdata.GetAccounts(ctx, rec.AccessToken)
		if err != nil {
			// Stale connection; still list the record without metadata.
			log.Printf("Accounts view: aggregator fetch failed for bank %s: %v", rec.BankID, err)
		} else {
			for _, a := range accounts {
				if a.ID == rec.AccountID {
					summary.Name = a.Name
					summary.Mask = a.Mask
					summary.Type = a.Type
					summary.Subtype = a.Subtype
					break
				}
			}
		}
		view = append(view, summary)
	}

	s.views.set(user.ID, view)
	return view, nil
}

func linkFailure(step string, err error) *Error {
	log.Printf("Exchange: %s failed: %v", step, err)
	return newError(CodeExternalService, "Failed to link bank account. Please try again.",
		fmt.Errorf("%s: %w", step, err))
}

// classifySignUpError maps structured identity-service codes to the
// user-facing taxonomy.
func classifySignUpError(err error) *Error {
	var pe *provider.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "user_already_exists":
			return newError(CodeAccountExists, "An account with this email already exists.", err)
		case "password_weak":
			return newError(CodeValidation, "Password does not meet requirements.", err)
		case "email_invalid":
			return newError(CodeValidation, "Please enter a valid email address.", err)
		}
	}
	return newError(CodeExternalService, "Failed to create account. Please try again.", err)
}
