package service

import (
	"github.com/anchorbill/anchorbill/internal/config"
	"github.com/anchorbill/anchorbill/internal/domain/customer"
	"github.com/anchorbill/anchorbill/internal/domain/invoice"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	"github.com/anchorbill/anchorbill/internal/domain/task"
	"github.com/anchorbill/anchorbill/internal/logger"
)

// ServiceParams holds the common dependencies every service needs.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	CustomerRepo     customer.Repository
	SubscriptionRepo subscription.Repository
	InvoiceRepo      invoice.Repository
	PaymentRepo      payment.Repository
	TaskRepo         task.Repository

	// PaymentProvider is the configured charging backend
	PaymentProvider payment.Provider
}
