package service

import (
	"testing"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/customer"
	"github.com/anchorbill/anchorbill/internal/domain/period"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/testutil"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  BillingService
	testData struct {
		customer     *customer.Customer
		subscription *subscription.Subscription
		period       period.Period
	}
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.service = NewBillingService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		CustomerRepo:     s.GetStores().CustomerRepo,
		SubscriptionRepo: s.GetStores().SubscriptionRepo,
		InvoiceRepo:      s.GetStores().InvoiceRepo,
		PaymentRepo:      s.GetStores().PaymentRepo,
		TaskRepo:         s.GetStores().TaskRepo,
		PaymentProvider:  s.GetProvider(),
	})

	cust, err := customer.New(s.GetContext(), "Test Customer", "billing@example.com")
	s.Require().NoError(err)
	cust.PaymentMethodID = lo.ToPtr("mdt_test")
	cust.ProviderCustomerID = lo.ToPtr("cst_test")
	s.Require().NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), cust))
	s.testData.customer = cust

	anchor := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	sub, err := subscription.New(s.GetContext(), cust.ID, anchor)
	s.Require().NoError(err)
	s.Require().NoError(sub.ChangePlan(decimal.NewFromInt(1), 50, nil))
	s.Require().NoError(s.GetStores().SubscriptionRepo.Create(s.GetContext(), sub))
	s.testData.subscription = sub
	s.testData.period = period.Resolve(anchor, anchor)
}

func (s *BillingServiceSuite) TestBillFullPeriod() {
	inv, err := s.service.BillPeriod(s.GetContext(), s.testData.subscription, s.testData.period)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.Equal("EUR", inv.Currency)
	s.Len(inv.Items, 1)
	s.True(inv.Amount.Equal(decimal.NewFromInt(50)), "amount: %s", inv.Amount)
	s.True(inv.VATAmount.Equal(decimal.NewFromFloat(10.5)), "vat: %s", inv.VATAmount)
	s.True(inv.TotalAmount.Equal(decimal.NewFromFloat(60.5)), "total: %s", inv.TotalAmount)
	s.NotNil(inv.PeriodStart)
	s.NotNil(inv.PeriodEnd)

	// The charge was submitted for the invoice total
	s.Require().Len(s.GetProvider().Charges(), 1)
	charge := s.GetProvider().Charges()[0]
	s.True(charge.Amount.Equal(inv.TotalAmount))
	s.Equal(inv.ID, charge.InvoiceID)
	s.NotNil(inv.PaymentID)
}

func (s *BillingServiceSuite) TestBillAppliesPartialCredit() {
	cust := s.testData.customer
	cust.Balance = decimal.NewFromInt(20)
	s.Require().NoError(s.GetStores().CustomerRepo.Update(s.GetContext(), cust))

	inv, err := s.service.BillPeriod(s.GetContext(), s.testData.subscription, s.testData.period)
	s.NoError(err)

	s.Len(inv.Items, 2)
	creditItem := inv.Items[1]
	s.Equal("Credit", creditItem.Description)
	s.True(creditItem.PricePerUnit.Equal(decimal.NewFromInt(-20)))

	s.True(inv.Amount.Equal(decimal.NewFromInt(30)), "amount: %s", inv.Amount)
	s.True(inv.VATAmount.Equal(decimal.NewFromFloat(6.3)), "vat: %s", inv.VATAmount)
	s.True(inv.TotalAmount.Equal(decimal.NewFromFloat(36.3)), "total: %s", inv.TotalAmount)

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), cust.ID)
	s.NoError(err)
	s.True(stored.Balance.IsZero(), "remaining balance: %s", stored.Balance)
}

func (s *BillingServiceSuite) TestBillSettledEntirelyFromCredit() {
	cust := s.testData.customer
	cust.Balance = decimal.NewFromInt(123)
	s.Require().NoError(s.GetStores().CustomerRepo.Update(s.GetContext(), cust))

	inv, err := s.service.BillPeriod(s.GetContext(), s.testData.subscription, s.testData.period)
	s.NoError(err)

	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.NotNil(inv.PaidAt)
	s.True(inv.TotalAmount.IsZero(), "total: %s", inv.TotalAmount)
	s.Nil(inv.PaymentID)
	s.Empty(s.GetProvider().Charges())

	// Only the consumed part of the balance is spent
	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), cust.ID)
	s.NoError(err)
	s.True(stored.Balance.Equal(decimal.NewFromInt(73)), "remaining balance: %s", stored.Balance)
}

func (s *BillingServiceSuite) TestBillMissingPaymentMethod() {
	cust := s.testData.customer
	cust.PaymentMethodID = nil
	s.Require().NoError(s.GetStores().CustomerRepo.Update(s.GetContext(), cust))

	inv, err := s.service.BillPeriod(s.GetContext(), s.testData.subscription, s.testData.period)
	s.Error(err)
	s.True(ierr.IsMissingPaymentMethod(err))

	// The invoice still exists and awaits a retry with a valid mandate
	s.Require().NotNil(inv)
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.Empty(s.GetProvider().Charges())

	invoices, err := s.GetStores().InvoiceRepo.ListBySubscription(s.GetContext(), s.testData.subscription.ID)
	s.NoError(err)
	s.Len(invoices, 1)
}

func (s *BillingServiceSuite) TestBillProratesMidPeriodChange() {
	sub := s.testData.subscription
	changeDate := time.Date(2022, 1, 16, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(sub.ChangePlan(decimal.NewFromInt(2), 50, &changeDate))

	inv, err := s.service.BillPeriod(s.GetContext(), sub, s.testData.period)
	s.NoError(err)

	s.Len(inv.Items, 2)
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount())
	}
	s.True(inv.Amount.Equal(types.RoundToCents(total)))
	s.True(inv.Amount.GreaterThan(decimal.NewFromInt(50)))
	s.True(inv.Amount.LessThan(decimal.NewFromInt(100)))
}
