package records

import "context"

// StoreInterface defines the methods required from the record store
type StoreInterface interface {
	CreateUserProfile(ctx context.Context, profile Profile) (*Profile, error)
	GetUserProfile(ctx context.Context, userID string) (*Profile, error) // nil when absent
	CreateBankAccount(ctx context.Context, account BankAccount) (*BankAccount, error)
	FindBankAccount(ctx context.Context, userID, accountID string) (*BankAccount, error) // nil when absent
	ListBankAccounts(ctx context.Context, userID string) ([]*BankAccount, error)
}
