package service

import (
	"context"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/invoice"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	"github.com/anchorbill/anchorbill/internal/domain/period"
	"github.com/anchorbill/anchorbill/internal/domain/proration"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// BillingService assembles the invoice for one billing period of a
// subscription and submits the charge for it.
type BillingService interface {
	// BillPeriod prorates the subscription's ledger over the billed
	// period, applies the customer's credit balance, adds VAT, and
	// either settles the invoice from credit alone or submits a
	// background charge. The assembled invoice is returned even when
	// charge submission fails.
	BillPeriod(ctx context.Context, sub *subscription.Subscription, billed period.Period) (*invoice.Invoice, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

func (s *billingService) BillPeriod(ctx context.Context, sub *subscription.Subscription, billed period.Period) (*invoice.Invoice, error) {
	items, err := proration.SliceForPeriod(sub.Changes, billed, sub.AnchorDate)
	if err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, sub.CustomerID)
	if err != nil {
		return nil, err
	}

	vatRate := decimal.NewFromFloat(s.Config.Billing.VATRate)
	inv, err := invoice.New(ctx, sub.CustomerID, s.Config.Billing.Currency, vatRate)
	if err != nil {
		return nil, err
	}
	inv.SubscriptionID = &sub.ID
	inv.PeriodStart = &billed.Start
	inv.PeriodEnd = &billed.End

	for _, item := range items {
		line := invoice.NewItem(item.Description, item.Amount, 1)
		start := item.StartDate
		end := item.EndDate
		line.PeriodStart = &start
		line.PeriodEnd = &end
		if err := inv.AddItem(line); err != nil {
			return nil, err
		}
	}

	subtotal := inv.ItemTotal()

	// Apply available account credit before VAT. A credit that covers
	// the whole subtotal settles the invoice with no charge at all.
	credit := decimal.Min(cust.Balance, subtotal)
	if credit.IsPositive() {
		creditItem := invoice.NewItem("Credit", credit.Neg(), 1)
		if err := inv.AddItem(creditItem); err != nil {
			return nil, err
		}
		cust.Balance = cust.Balance.Sub(credit)
		if err := s.CustomerRepo.Update(ctx, cust); err != nil {
			return nil, err
		}
	}

	inv.Amount = inv.ItemTotal()
	inv.VATAmount = types.RoundToCents(inv.Amount.Mul(vatRate).Div(decimal.NewFromInt(100)))
	inv.TotalAmount = inv.Amount.Add(inv.VATAmount)

	if !inv.TotalAmount.IsPositive() {
		inv.MarkPaid(time.Now().UTC())
		if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
			return nil, err
		}
		s.Logger.Infow("invoice settled from credit",
			"invoice_id", inv.ID,
			"subscription_id", sub.ID,
			"credit_applied", credit)
		return inv, nil
	}

	inv.InvoiceStatus = types.InvoiceStatusPending
	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	if !cust.HasPaymentMethod() {
		return inv, ierr.NewError("customer has no verified payment method").
			WithHintf("customer %s cannot be charged", cust.ID).
			Mark(ierr.ErrMissingPaymentMethod)
	}

	pmt, err := payment.New(ctx, inv.ID, cust.ID, inv.Currency, inv.TotalAmount)
	if err != nil {
		return inv, err
	}
	if err := s.PaymentRepo.Create(ctx, pmt); err != nil {
		return inv, err
	}
	inv.PaymentID = &pmt.ID
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return inv, err
	}

	providerCustomerID := ""
	if cust.ProviderCustomerID != nil {
		providerCustomerID = *cust.ProviderCustomerID
	}
	if err := s.PaymentProvider.ChargeBackgroundPayment(ctx, pmt, providerCustomerID, *cust.PaymentMethodID); err != nil {
		msg := err.Error()
		pmt.ErrorMessage = &msg
		_ = s.PaymentRepo.Update(ctx, pmt)
		return inv, err
	}
	if err := s.PaymentRepo.Update(ctx, pmt); err != nil {
		return inv, err
	}

	s.Logger.Infow("submitted background charge",
		"invoice_id", inv.ID,
		"payment_id", pmt.ID,
		"amount", inv.TotalAmount,
		"currency", inv.Currency)

	return inv, nil
}
