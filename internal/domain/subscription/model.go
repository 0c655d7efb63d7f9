package subscription

import (
	"context"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
)

// Subscription represents a metered subscription billed on a recurring
// anchor-date cycle. It owns the ordered ledger of plan changes that
// accumulate over its life.
type Subscription struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`

	// AnchorDate establishes the recurring billing day-of-month.
	// It is set at creation and never changes.
	AnchorDate time.Time `json:"anchor_date"`

	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`

	// LastPaymentAt is the time of the most recent successful charge
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty"`

	// CurrentPeriodStart and CurrentPeriodEnd track the period most
	// recently billed by the scheduler
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`

	// Changes is the plan-change ledger, ordered by start time. It is
	// owned exclusively by this subscription; persistence populates it
	// with an explicit loader call at the repository boundary.
	Changes []*PlanChange `json:"changes,omitempty"`

	types.BaseModel
}

// New creates an active subscription anchored at the given date.
func New(ctx context.Context, customerID string, anchorDate time.Time) (*Subscription, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("A subscription must belong to a customer").
			Mark(ierr.ErrValidation)
	}
	if anchorDate.IsZero() {
		return nil, ierr.NewError("anchor date is required").
			WithHint("A subscription needs an anchor date to derive billing periods").
			Mark(ierr.ErrValidation)
	}

	return &Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		CustomerID:         customerID,
		AnchorDate:         anchorDate.UTC(),
		SubscriptionStatus: types.SubscriptionStatusActive,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}, nil
}

// IsBillable reports whether the scheduler should keep charging the
// subscription. Subscriptions in error state remain billable so a
// single failed cycle does not stall them permanently.
func (s *Subscription) IsBillable() bool {
	switch s.SubscriptionStatus {
	case types.SubscriptionStatusActive, types.SubscriptionStatusError:
		return true
	default:
		return false
	}
}

func (s *Subscription) Validate() error {
	if err := s.SubscriptionStatus.Validate(); err != nil {
		return err
	}
	if s.AnchorDate.IsZero() {
		return ierr.NewError("anchor date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
