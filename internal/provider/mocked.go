package provider

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/anchorbill/anchorbill/internal/domain/payment"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
)

// MockedProvider is the in-memory payment provider used by tests and
// local development. It records every background charge and parses
// webhook payloads that are plain JSON-encoded WebhookResults.
type MockedProvider struct {
	mu      sync.Mutex
	charges []*payment.Payment

	// ChargeErr, when set, is returned from ChargeBackgroundPayment to
	// simulate an unreachable provider
	ChargeErr error
}

func NewMockedProvider() *MockedProvider {
	return &MockedProvider{}
}

func (m *MockedProvider) Type() types.PaymentProviderType {
	return types.PaymentProviderMocked
}

func (m *MockedProvider) ChargeBackgroundPayment(ctx context.Context, p *payment.Payment, providerCustomerID, paymentMethodID string) error {
	if m.ChargeErr != nil {
		return m.ChargeErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	providerID := "mock_" + p.ID
	p.ProviderPaymentID = &providerID
	m.charges = append(m.charges, p)
	return nil
}

func (m *MockedProvider) ParseWebhook(ctx context.Context, payload []byte) (*payment.WebhookResult, error) {
	var result payment.WebhookResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Webhook payload is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if result.PaymentID == "" {
		return nil, ierr.NewError("webhook payload is missing the payment id").
			Mark(ierr.ErrValidation)
	}
	if err := result.Status.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Charges returns the background charges recorded so far.
func (m *MockedProvider) Charges() []*payment.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*payment.Payment, len(m.charges))
	copy(out, m.charges)
	return out
}

// Reset clears recorded charges and any scripted error.
func (m *MockedProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charges = nil
	m.ChargeErr = nil
}
