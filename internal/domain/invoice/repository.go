package invoice

import (
	"context"
)

// Repository defines the interface for invoice persistence operations.
// Implementations persist line items together with their invoice.
type Repository interface {
	// Create creates a new invoice with its items
	Create(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice by ID including its items
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update updates an existing invoice
	Update(ctx context.Context, inv *Invoice) error

	// ListBySubscription retrieves all invoices of a subscription in
	// chronological order, oldest first
	ListBySubscription(ctx context.Context, subscriptionID string) ([]*Invoice, error)
}
