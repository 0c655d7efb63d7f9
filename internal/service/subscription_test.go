package service

import (
	"testing"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/customer"
	"github.com/anchorbill/anchorbill/internal/domain/period"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/testutil"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SubscriptionService
	customer *customer.Customer
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.service = NewSubscriptionService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		CustomerRepo:     s.GetStores().CustomerRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		InvoiceRepo:      s.GetStores().InvoiceRepo,
		PaymentRepo:      s.GetStores().PaymentRepo,
		TaskRepo:         s.GetStores().TaskRepo,
		PaymentProvider:  s.GetProvider(),
	})

	cust, err := customer.New(s.GetContext(), "Test Customer", "subs@example.com")
	s.Require().NoError(err)
	s.Require().NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), cust))
	s.customer = cust
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionSchedulesFirstCharge() {
	anchor := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	sub, err := s.service.CreateSubscription(s.GetContext(), s.customer.ID, anchor, decimal.NewFromFloat(1.5), 10)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, sub.SubscriptionStatus)
	s.Require().Len(sub.Changes, 1)
	s.True(sub.Changes[0].Start.Equal(anchor))
	s.True(sub.Changes[0].IsOpen())

	firstPeriod := period.Resolve(anchor, anchor)
	due, err := s.GetStores().TaskRepo.ListDue(s.GetContext(), firstPeriod.End, 10)
	s.NoError(err)
	s.Require().Len(due, 1)
	s.True(due[0].ExecuteAt.Equal(firstPeriod.End))
	s.Equal(sub.ID, due[0].Data.SubscriptionID)
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionUnknownCustomer() {
	anchor := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := s.service.CreateSubscription(s.GetContext(), "cust_missing", anchor, decimal.NewFromInt(1), 1)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestChangePlanAppendsLedgerEntry() {
	anchor := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	sub, err := s.service.CreateSubscription(s.GetContext(), s.customer.ID, anchor, decimal.NewFromInt(1), 50)
	s.Require().NoError(err)

	changeDate := time.Date(2022, 1, 16, 0, 0, 0, 0, time.UTC)
	updated, err := s.service.ChangePlan(s.GetContext(), sub.ID, decimal.NewFromInt(2), 50, &changeDate)
	s.NoError(err)
	s.Require().Len(updated.Changes, 2)
	s.Require().NotNil(updated.Changes[0].End)
	s.True(updated.Changes[0].End.Equal(changeDate))
	s.True(updated.Changes[1].Start.Equal(changeDate))
	s.True(updated.Changes[1].IsOpen())
}

func (s *SubscriptionServiceSuite) TestChangePlanOnCancelledSubscription() {
	anchor := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	sub, err := s.service.CreateSubscription(s.GetContext(), s.customer.ID, anchor, decimal.NewFromInt(1), 50)
	s.Require().NoError(err)

	_, err = s.service.CancelSubscription(s.GetContext(), sub.ID)
	s.Require().NoError(err)

	changeDate := anchor.AddDate(0, 0, 10)
	_, err = s.service.ChangePlan(s.GetContext(), sub.ID, decimal.NewFromInt(2), 50, &changeDate)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
