package subscription

import (
	"context"
)

// Repository defines the interface for subscription persistence operations.
// Implementations must persist the plan-change ledger together with the
// subscription and return it ordered by start time.
type Repository interface {
	// Create creates a new subscription with its ledger
	Create(ctx context.Context, sub *Subscription) error

	// Get retrieves a subscription by ID including its ledger
	Get(ctx context.Context, id string) (*Subscription, error)

	// Update updates an existing subscription and its ledger
	Update(ctx context.Context, sub *Subscription) error

	// List retrieves all subscriptions
	List(ctx context.Context) ([]*Subscription, error)
}
