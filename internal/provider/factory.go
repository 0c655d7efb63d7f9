package provider

import (
	"github.com/anchorbill/anchorbill/internal/config"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/logger"
	"github.com/anchorbill/anchorbill/internal/types"
)

// NewProvider builds the payment provider the deployment is configured
// for. One provider is selected per deployment and injected into the
// charging path.
func NewProvider(cfg *config.Configuration, log *logger.Logger) (payment.Provider, error) {
	switch cfg.Provider.Type {
	case types.PaymentProviderMocked:
		return NewMockedProvider(), nil
	case types.PaymentProviderMollie:
		return NewMollieProvider(cfg.Provider.Mollie, log), nil
	case types.PaymentProviderStripe:
		return NewStripeProvider(cfg.Provider.Stripe, log), nil
	default:
		return nil, ierr.NewError("unknown payment provider type").
			WithHintf("no provider implementation for %q", cfg.Provider.Type).
			Mark(ierr.ErrValidation)
	}
}
