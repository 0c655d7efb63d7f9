package types

import (
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/samber/lo"
)

// PaymentStatus represents the status reported for a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusPaid,
		PaymentStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Please provide a valid payment status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentProviderType selects the payment provider implementation.
// Exactly one provider is configured per deployment and injected into
// the charging path.
type PaymentProviderType string

const (
	PaymentProviderMocked PaymentProviderType = "mocked"
	PaymentProviderMollie PaymentProviderType = "mollie"
	PaymentProviderStripe PaymentProviderType = "stripe"
)

func (t PaymentProviderType) String() string {
	return string(t)
}

func (t PaymentProviderType) Validate() error {
	allowed := []PaymentProviderType{
		PaymentProviderMocked,
		PaymentProviderMollie,
		PaymentProviderStripe,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid payment provider type").
			WithHint("Please provide a valid payment provider type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
