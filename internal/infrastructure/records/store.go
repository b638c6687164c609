// Package records persists application documents (user profiles and
// linked bank accounts) in the external document database.
package records

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Store implements StoreInterface on Firestore.
type Store struct {
	client         *firestore.Client
	userCollection string
	bankCollection string
}

// Ensure Store implements StoreInterface
var _ StoreInterface = (*Store)(nil)

// New initializes the Firebase app and opens the Firestore client.
func New(ctx context.Context, projectID, credentialsFile, userCollection, bankCollection string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return &Store{
		client:         client,
		userCollection: userCollection,
		bankCollection: bankCollection,
	}, nil
}

// Close releases the underlying Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Profile mirrors an identity-service user into the record store,
// joined with the derived payment-customer identifiers.
type Profile struct {
	DocumentID        string `firestore:"-" json:"documentId"`
	UserID            string `firestore:"userId" json:"userId"`
	Email             string `firestore:"email" json:"email"`
	FirstName         string `firestore:"firstName" json:"firstName"`
	LastName          string `firestore:"lastName" json:"lastName"`
	DwollaCustomerID  string `firestore:"dwollaCustomerId" json:"dwollaCustomerId"`
	DwollaCustomerURL string `firestore:"dwollaCustomerUrl" json:"dwollaCustomerUrl"`
}

// BankAccount is a linked-bank-account record. Append-only: written
// exactly once per successful linking exchange.
type BankAccount struct {
	DocumentID       string `firestore:"-" json:"documentId"`
	UserID           string `firestore:"userId" json:"userId"`
	BankID           string `firestore:"bankId" json:"bankId"`
	AccountID        string `firestore:"accountId" json:"accountId"`
	AccessToken      string `firestore:"accessToken" json:"-"`
	FundingSourceURL string `firestore:"fundingSourceUrl" json:"fundingSourceUrl"`
	ShareableID      string `firestore:"shareableId" json:"shareableId"`
}

// CreateUserProfile stores a profile document under a generated id.
func (s *Store) CreateUserProfile(ctx context.Context, profile Profile) (*Profile, error) {
	id := uuid.NewString()
	if _, err := s.client.Collection(s.userCollection).Doc(id).Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile document: %w", err)
	}
	profile.DocumentID = id
	return &profile, nil
}

// GetUserProfile finds the profile for an identity-service user id.
// Returns nil without error when absent.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*Profile, error) {
	iter := s.client.Collection(s.userCollection).
		Where("userId", "==", userID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile document: %w", err)
	}
	profile.DocumentID = doc.Ref.ID
	return &profile, nil
}

// CreateBankAccount stores a bank account record under a generated id.
func (s *Store) CreateBankAccount(ctx context.Context, account BankAccount) (*BankAccount, error) {
	id := uuid.NewString()
	if _, err := s.client.Collection(s.bankCollection).Doc(id).Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create bank account document: %w", err)
	}
	account.DocumentID = id
	return &account, nil
}

// FindBankAccount looks up a record by (userId, accountId). Returns nil
// without error when absent; used as the duplicate-link guard.
func (s *Store) FindBankAccount(ctx context.Context, userID, accountID string) (*BankAccount, error) {
	iter := s.client.Collection(s.bankCollection).
		Where("userId", "==", userID).
		Where("accountId", "==", accountID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bank account: %w", err)
	}

	var account BankAccount
	if err := doc.DataTo(&account); err != nil {
		return nil, fmt.Errorf("failed to decode bank account document: %w", err)
	}
	account.DocumentID = doc.Ref.ID
	return &account, nil
}

// ListBankAccounts returns all bank account records for a user.
func (s *Store) ListBankAccounts(ctx context.Context, userID string) ([]*BankAccount, error) {
	iter := s.client.Collection(s.bankCollection).
		Where("userId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var accounts []*BankAccount
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bank accounts: %w", err)
		}

		var account BankAccount
		if err := doc.DataTo(&account); err != nil {
			return nil, fmt.Errorf("failed to decode bank account document: %w", err)
		}
		account.DocumentID = doc.Ref.ID
		accounts = append(accounts, &account)
	}
	return accounts, nil
}
