package payment

import "context"

type ClientInterface interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
}

var _ ClientInterface = (*Client)(nil)
