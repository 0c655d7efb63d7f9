package testutil

import (
	"context"
	"time"

	"github.com/anchorbill/anchorbill/internal/config"
	"github.com/anchorbill/anchorbill/internal/domain/customer"
	"github.com/anchorbill/anchorbill/internal/domain/invoice"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	"github.com/anchorbill/anchorbill/internal/domain/task"
	"github.com/anchorbill/anchorbill/internal/logger"
	"github.com/anchorbill/anchorbill/internal/provider"
	"github.com/anchorbill/anchorbill/internal/repository/inmemory"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CustomerRepo     customer.Repository
	SubscriptionRepo subscription.Repository
	InvoiceRepo      invoice.Repository
	PaymentRepo      payment.Repository
	TaskRepo         task.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	provider *provider.MockedProvider
	logger   *logger.Logger
	config   *config.Configuration
	now      time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CustomerRepo:     inmemory.NewInMemoryCustomerStore(),
		SubscriptionRepo: inmemory.NewInMemorySubscriptionStore(),
		InvoiceRepo:      inmemory.NewInMemoryInvoiceStore(),
		PaymentRepo:      inmemory.NewInMemoryPaymentStore(),
		TaskRepo:         inmemory.NewInMemoryTaskStore(),
	}
	s.provider = provider.NewMockedProvider()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CustomerRepo.(*inmemory.InMemoryCustomerStore).Clear()
	s.stores.SubscriptionRepo.(*inmemory.InMemorySubscriptionStore).Clear()
	s.stores.InvoiceRepo.(*inmemory.InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*inmemory.InMemoryPaymentStore).Clear()
	s.stores.TaskRepo.(*inmemory.InMemoryTaskStore).Clear()
	s.provider.Reset()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetProvider returns the mocked payment provider
func (s *BaseServiceTestSuite) GetProvider() *provider.MockedProvider {
	return s.provider
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
