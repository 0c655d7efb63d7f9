package types

import (
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	// SubscriptionStatusActive indicates the subscription is billed on every cycle
	SubscriptionStatusActive SubscriptionStatus = "active"
	// SubscriptionStatusError indicates the last charge attempt failed; billing continues
	SubscriptionStatusError SubscriptionStatus = "error"
	// SubscriptionStatusPaused indicates billing is suspended but the subscription is kept
	SubscriptionStatusPaused SubscriptionStatus = "paused"
	// SubscriptionStatusCancelled indicates the subscription is terminated
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusError,
		SubscriptionStatusPaused,
		SubscriptionStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Please provide a valid subscription status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
