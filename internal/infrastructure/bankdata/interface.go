package bankdata

import "context"

// ClientInterface defines the methods required from the aggregator client
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, params LinkTokenParams) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (string, error)
}
