package payment

import (
	"context"
)

// Repository defines the interface for payment persistence operations
type Repository interface {
	// Create creates a new payment
	Create(ctx context.Context, p *Payment) error

	// Get retrieves a payment by ID
	Get(ctx context.Context, id string) (*Payment, error)

	// Update updates an existing payment
	Update(ctx context.Context, p *Payment) error

	// GetByProviderPaymentID retrieves a payment by the identifier the
	// payment provider assigned to it
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*Payment, error)
}
