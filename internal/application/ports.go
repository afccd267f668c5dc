package application

import (
	"context"

	"github.com/oksasatya/marketplace-api/internal/infrastructure/paystack"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/storage"
)

// JobPublisher enqueues a background job. *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// PaymentGateway starts a hosted checkout. *paystack.Client satisfies it.
type PaymentGateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
}

// ImageStore persists uploaded files. storage.Local and storage.GCS satisfy it.
type ImageStore interface {
	storage.Driver
}
