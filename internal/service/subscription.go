package service

import (
	"context"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/period"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	"github.com/anchorbill/anchorbill/internal/domain/task"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// SubscriptionService owns the subscription lifecycle: creation with an
// initial plan, plan changes, and scheduling of the first charge.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, customerID string, anchorDate time.Time, pricePerUnit decimal.Decimal, units int64) (*subscription.Subscription, error)
	ChangePlan(ctx context.Context, subscriptionID string, pricePerUnit decimal.Decimal, units int64, changeDate *time.Time) (*subscription.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (*subscription.Subscription, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

// CreateSubscription creates an active subscription with its initial
// plan and enqueues the first charge task at the end of the billing
// period containing the anchor date.
func (s *subscriptionService) CreateSubscription(ctx context.Context, customerID string, anchorDate time.Time, pricePerUnit decimal.Decimal, units int64) (*subscription.Subscription, error) {
	if _, err := s.CustomerRepo.Get(ctx, customerID); err != nil {
		return nil, err
	}

	sub, err := subscription.New(ctx, customerID, anchorDate)
	if err != nil {
		return nil, err
	}
	if err := sub.ChangePlan(pricePerUnit, units, nil); err != nil {
		return nil, err
	}
	if err := s.SubscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	firstPeriod := period.Resolve(sub.AnchorDate, sub.AnchorDate)
	chargeTask, err := task.NewChargeSubscriptionTask(ctx, sub.ID, firstPeriod.End)
	if err != nil {
		return nil, err
	}
	if err := s.TaskRepo.Create(ctx, chargeTask); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", customerID,
		"anchor_date", sub.AnchorDate,
		"first_charge_at", chargeTask.ExecuteAt)

	return sub, nil
}

// ChangePlan appends a plan change to the subscription's ledger.
func (s *subscriptionService) ChangePlan(ctx context.Context, subscriptionID string, pricePerUnit decimal.Decimal, units int64, changeDate *time.Time) (*subscription.Subscription, error) {
	sub, err := s.SubscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsBillable() {
		return nil, ierr.NewError("subscription is not billable").
			WithHintf("subscription %s is %s", sub.ID, sub.SubscriptionStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := sub.ChangePlan(pricePerUnit, units, changeDate); err != nil {
		return nil, err
	}
	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("changed subscription plan",
		"subscription_id", sub.ID,
		"price_per_unit", pricePerUnit,
		"units", units)

	return sub, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.SubscriptionRepo.Get(ctx, id)
}

// CancelSubscription stops future billing. Already-billed periods keep
// their invoices; the scheduler skips pending charge tasks once it sees
// the cancelled status.
func (s *subscriptionService) CancelSubscription(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.SubscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.SubscriptionStatus == types.SubscriptionStatusCancelled {
		return sub, nil
	}
	sub.SubscriptionStatus = types.SubscriptionStatusCancelled
	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled subscription", "subscription_id", sub.ID)
	return sub, nil
}
