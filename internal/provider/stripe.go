package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anchorbill/anchorbill/internal/config"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/logger"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// StripeProvider charges customers through off-session PaymentIntents
// against a saved payment method.
type StripeProvider struct {
	client *stripe.Client
	logger *logger.Logger
}

func NewStripeProvider(cfg config.StripeConfig, log *logger.Logger) *StripeProvider {
	return &StripeProvider{
		client: stripe.NewClient(cfg.SecretKey, nil),
		logger: log,
	}
}

func (s *StripeProvider) Type() types.PaymentProviderType {
	return types.PaymentProviderStripe
}

func (s *StripeProvider) ChargeBackgroundPayment(ctx context.Context, p *payment.Payment, providerCustomerID, paymentMethodID string) error {
	amountInCents := p.Amount.Mul(decimal.NewFromInt(100)).IntPart()
	params := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(amountInCents),
		Currency:      stripe.String(p.Currency),
		Customer:      stripe.String(providerCustomerID),
		PaymentMethod: stripe.String(paymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
		Metadata: map[string]string{
			"payment_id": p.ID,
			"invoice_id": p.InvoiceID,
		},
	}

	paymentIntent, err := s.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Stripe rejected the background charge").
			Mark(ierr.ErrProviderUnavailable)
	}

	p.ProviderPaymentID = &paymentIntent.ID
	s.logger.Infow("submitted stripe background payment",
		"payment_id", p.ID, "payment_intent_id", paymentIntent.ID)
	return nil
}

// stripeEvent is the slice of a Stripe webhook event the billing core
// cares about.
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Created int64  `json:"created"`
		} `json:"object"`
	} `json:"data"`
}

func (s *StripeProvider) ParseWebhook(ctx context.Context, payload []byte) (*payment.WebhookResult, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stripe webhook payload is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if event.Data.Object.ID == "" {
		return nil, ierr.NewError("stripe webhook payload is missing the payment intent id").
			Mark(ierr.ErrValidation)
	}

	result := &payment.WebhookResult{
		PaymentID: event.Data.Object.ID,
		Status:    stripeStatus(event.Type, event.Data.Object.Status),
	}
	if result.Status == types.PaymentStatusPaid {
		paidAt := time.Unix(event.Data.Object.Created, 0).UTC()
		result.PaidAt = &paidAt
	}
	return result, nil
}

func stripeStatus(eventType, intentStatus string) types.PaymentStatus {
	switch eventType {
	case "payment_intent.succeeded":
		return types.PaymentStatusPaid
	case "payment_intent.payment_failed", "payment_intent.canceled":
		return types.PaymentStatusFailed
	}
	switch intentStatus {
	case "succeeded":
		return types.PaymentStatusPaid
	case "canceled":
		return types.PaymentStatusFailed
	default:
		return types.PaymentStatusPending
	}
}
