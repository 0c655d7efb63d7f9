package service

import (
	"context"
	"fmt"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	gocache "github.com/patrickmn/go-cache"
)

const (
	webhookDedupeTTL     = 24 * time.Hour
	webhookDedupeCleanup = time.Hour
)

// PaymentService applies provider webhook outcomes to payments,
// invoices, and subscriptions.
type PaymentService interface {
	// HandleWebhook parses a raw provider webhook payload and applies
	// the reported outcome. Redelivered webhooks are absorbed without
	// re-applying state.
	HandleWebhook(ctx context.Context, payload []byte) error
}

type paymentService struct {
	ServiceParams

	// seen short-circuits webhook redeliveries before any state is touched
	seen *gocache.Cache
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
		seen:          gocache.New(webhookDedupeTTL, webhookDedupeCleanup),
	}
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte) error {
	result, err := s.PaymentProvider.ParseWebhook(ctx, payload)
	if err != nil {
		return err
	}
	if result.PaymentID == "" {
		return ierr.NewError("webhook carries no payment id").
			Mark(ierr.ErrValidation)
	}

	dedupeKey := fmt.Sprintf("%s:%s", result.PaymentID, result.Status)
	if _, dup := s.seen.Get(dedupeKey); dup {
		s.Logger.Debugw("ignoring redelivered webhook",
			"provider_payment_id", result.PaymentID,
			"status", result.Status)
		return nil
	}

	pmt, err := s.PaymentRepo.GetByProviderPaymentID(ctx, result.PaymentID)
	if err != nil {
		return err
	}

	if !pmt.ApplyStatus(result.Status, result.PaidAt) {
		s.seen.SetDefault(dedupeKey, struct{}{})
		return nil
	}
	if err := s.PaymentRepo.Update(ctx, pmt); err != nil {
		return err
	}

	inv, err := s.InvoiceRepo.Get(ctx, pmt.InvoiceID)
	if err != nil {
		return err
	}
	switch pmt.PaymentStatus {
	case types.PaymentStatusPaid:
		paidAt := time.Now().UTC()
		if pmt.PaidAt != nil {
			paidAt = *pmt.PaidAt
		}
		inv.MarkPaid(paidAt)
	case types.PaymentStatusFailed:
		inv.MarkFailed()
	}
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return err
	}

	if inv.SubscriptionID != nil {
		if err := s.applyToSubscription(ctx, *inv.SubscriptionID, pmt.PaymentStatus, pmt.PaidAt); err != nil {
			return err
		}
	}

	s.seen.SetDefault(dedupeKey, struct{}{})

	s.Logger.Infow("applied payment webhook",
		"payment_id", pmt.ID,
		"invoice_id", inv.ID,
		"status", pmt.PaymentStatus)

	return nil
}

// applyToSubscription reflects a payment outcome on the subscription: a
// successful charge records the payment time and clears a prior error
// state, a failed one parks the subscription in error. Error state does
// not stop future billing, so a later cycle can recover it.
func (s *paymentService) applyToSubscription(ctx context.Context, subscriptionID string, status types.PaymentStatus, paidAt *time.Time) error {
	sub, err := s.SubscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return err
	}

	switch status {
	case types.PaymentStatusPaid:
		sub.LastPaymentAt = paidAt
		if sub.SubscriptionStatus == types.SubscriptionStatusError {
			sub.SubscriptionStatus = types.SubscriptionStatusActive
		}
	case types.PaymentStatusFailed:
		if sub.SubscriptionStatus == types.SubscriptionStatusActive {
			sub.SubscriptionStatus = types.SubscriptionStatusError
		}
	default:
		return nil
	}

	return s.SubscriptionRepo.Update(ctx, sub)
}
