package identity

import "context"

// ClientInterface defines the methods required from the identity service client
type ClientInterface interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (*Session, error)
	GetAccount(ctx context.Context, sessionSecret string) (*Account, error)
	DeleteSession(ctx context.Context, sessionSecret string) error
}
