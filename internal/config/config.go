package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/anchorbill/anchorbill/internal/validator"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	Provider   ProviderConfig   `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// BillingConfig controls the recurring charge loop and invoice pricing
type BillingConfig struct {
	// Currency is the ISO 4217 code all invoices are raised in
	Currency string `validate:"required,len=3"`
	// VATRate is the flat VAT percentage applied to every invoice
	VATRate float64 `validate:"gte=0,lte=100"`
	// SchedulerInterval is how often the due-task sweep runs
	SchedulerInterval time.Duration `validate:"required"`
	// TaskPageSize caps how many due tasks a single sweep picks up
	TaskPageSize int `validate:"required,gt=0"`
}

type ProviderConfig struct {
	// Type selects the payment provider implementation
	Type   types.PaymentProviderType `validate:"required"`
	Mollie MollieConfig
	Stripe StripeConfig
}

type MollieConfig struct {
	APIKey  string
	BaseURL string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/anchorbill")

	v.SetEnvPrefix("ANCHORBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("billing.currency", "EUR")
	v.SetDefault("billing.vatrate", 21.0)
	v.SetDefault("billing.schedulerinterval", time.Minute)
	v.SetDefault("billing.taskpagesize", 25)
	v.SetDefault("provider.type", types.PaymentProviderMocked)
}

func (c Configuration) Validate() error {
	if err := validator.ValidateRequest(c); err != nil {
		return err
	}
	return c.Provider.Type.Validate()
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests without a config file
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Billing: BillingConfig{
			Currency:          "EUR",
			VATRate:           21.0,
			SchedulerInterval: time.Minute,
			TaskPageSize:      25,
		},
		Provider: ProviderConfig{Type: types.PaymentProviderMocked},
	}
}
