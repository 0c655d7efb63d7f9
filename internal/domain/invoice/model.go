package invoice

import (
	"context"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model. An invoice aggregates
// the prorated line items of one billing period, plus VAT and any
// applied account credit. Once paid it is immutable.
type Invoice struct {
	ID             string              `json:"id"`
	InvoiceNumber  string              `json:"invoice_number"`
	CustomerID     string              `json:"customer_id"`
	SubscriptionID *string             `json:"subscription_id,omitempty"`
	PaymentID      *string             `json:"payment_id,omitempty"`
	InvoiceStatus  types.InvoiceStatus `json:"invoice_status"`
	Currency       string              `json:"currency"`
	Date           time.Time           `json:"date"`

	// VATRate is the flat VAT percentage applied to Amount
	VATRate decimal.Decimal `json:"vat_rate"`

	// Amount is the rounded sum of item amounts after credit
	Amount decimal.Decimal `json:"amount"`
	// VATAmount is Amount * VATRate / 100, rounded
	VATAmount decimal.Decimal `json:"vat_amount"`
	// TotalAmount is Amount + VATAmount, rounded
	TotalAmount decimal.Decimal `json:"total_amount"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`

	// Items is owned exclusively by this invoice
	Items []*InvoiceItem `json:"items,omitempty"`

	types.BaseModel
}

// New creates a draft invoice for a customer.
func New(ctx context.Context, customerID, currency string, vatRate decimal.Decimal) (*Invoice, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("An invoice must belong to a customer").
			Mark(ierr.ErrValidation)
	}
	if currency == "" {
		return nil, ierr.NewError("currency is required").
			Mark(ierr.ErrValidation)
	}
	if vatRate.IsNegative() {
		return nil, ierr.NewError("vat rate must not be negative").
			WithHintf("got vat rate %s", vatRate).
			Mark(ierr.ErrValidation)
	}

	return &Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		CustomerID:    customerID,
		InvoiceStatus: types.InvoiceStatusDraft,
		Currency:      currency,
		VATRate:       vatRate,
		Date:          time.Now().UTC(),
		Amount:        decimal.Zero,
		VATAmount:     decimal.Zero,
		TotalAmount:   decimal.Zero,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}, nil
}

// AddItem appends a line item and links it to the invoice.
func (i *Invoice) AddItem(item *InvoiceItem) error {
	if i.InvoiceStatus.IsTerminal() {
		return ierr.NewError("invoice is immutable").
			WithHint("Paid invoices cannot be modified").
			Mark(ierr.ErrInvalidOperation)
	}
	item.InvoiceID = i.ID
	i.Items = append(i.Items, item)
	return nil
}

// ItemTotal returns the rounded sum of item amounts. Items carry
// per-item rounded amounts already, so this is a plain sum rounded once
// more for safety.
func (i *Invoice) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.Amount())
	}
	return types.RoundToCents(total)
}

// MarkPaid transitions the invoice to paid. Re-applying paid to an
// already-paid invoice is a no-op so webhook redeliveries stay safe.
func (i *Invoice) MarkPaid(paidAt time.Time) {
	if i.InvoiceStatus == types.InvoiceStatusPaid {
		return
	}
	i.InvoiceStatus = types.InvoiceStatusPaid
	at := paidAt.UTC()
	i.PaidAt = &at
}

// MarkFailed transitions the invoice to failed unless it is already paid.
func (i *Invoice) MarkFailed() {
	if i.InvoiceStatus == types.InvoiceStatusPaid {
		return
	}
	i.InvoiceStatus = types.InvoiceStatusFailed
}

func (i *Invoice) Validate() error {
	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}
	if i.VATAmount.IsNegative() {
		return ierr.NewError("vat amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
