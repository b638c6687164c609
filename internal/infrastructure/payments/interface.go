package payments

import "context"

// ClientInterface defines the methods required from the payment processor client
type ClientInterface interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateFundingSource(ctx context.Context, customerID, processorToken, name string) (string, error)
}
