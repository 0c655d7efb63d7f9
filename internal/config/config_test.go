package config

import (
	"testing"

	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "EUR", cfg.Billing.Currency)
	assert.Equal(t, types.PaymentProviderMocked, cfg.Provider.Type)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Provider.Type = "paypal"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadVATRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Billing.VATRate = 140
	assert.Error(t, cfg.Validate())
}
