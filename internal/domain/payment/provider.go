package payment

import (
	"context"
	"time"

	"github.com/anchorbill/anchorbill/internal/types"
)

// WebhookResult is a provider's report on a payment's outcome.
type WebhookResult struct {
	// PaymentID is the provider-side payment identifier
	PaymentID string              `json:"payment_id"`
	Status    types.PaymentStatus `json:"status"`
	PaidAt    *time.Time          `json:"paid_at,omitempty"`
}

// Provider is the narrow contract the billing core depends on. One
// implementation exists per provider and the configured one is injected
// into the charging path.
type Provider interface {
	// Type identifies the provider implementation
	Type() types.PaymentProviderType

	// ChargeBackgroundPayment fires a recurring charge attempt against
	// the customer's verified payment method. Completion is reported
	// asynchronously via webhook, not via this call's return value; an
	// error here means the attempt could not even be submitted.
	ChargeBackgroundPayment(ctx context.Context, p *Payment, providerCustomerID, paymentMethodID string) error

	// ParseWebhook extracts the payment outcome from a webhook payload.
	ParseWebhook(ctx context.Context, payload []byte) (*WebhookResult, error)
}
