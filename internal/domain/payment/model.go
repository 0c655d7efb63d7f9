package payment

import (
	"context"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is one charge attempt against a customer's payment method.
// Its outcome arrives asynchronously through a provider webhook.
type Payment struct {
	ID         string          `json:"id"`
	InvoiceID  string          `json:"invoice_id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`

	PaymentStatus types.PaymentStatus `json:"payment_status"`

	// ProviderPaymentID is the identifier assigned by the payment
	// provider once the charge is created there
	ProviderPaymentID *string `json:"provider_payment_id,omitempty"`

	PaidAt       *time.Time `json:"paid_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`

	types.BaseModel
}

// New creates a pending payment for an invoice total.
func New(ctx context.Context, invoiceID, customerID, currency string, amount decimal.Decimal) (*Payment, error) {
	if invoiceID == "" || customerID == "" {
		return nil, ierr.NewError("invoice id and customer id are required").
			Mark(ierr.ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, ierr.NewError("payment amount must be positive").
			WithHintf("got amount %s", amount).
			Mark(ierr.ErrValidation)
	}

	return &Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:     invoiceID,
		CustomerID:    customerID,
		Amount:        amount,
		Currency:      currency,
		PaymentStatus: types.PaymentStatusPending,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}, nil
}

// ApplyStatus applies a webhook-reported status. Transitions are
// idempotent: re-applying the current status is a no-op, and a settled
// payment never regresses to pending.
func (p *Payment) ApplyStatus(status types.PaymentStatus, paidAt *time.Time) bool {
	if p.PaymentStatus == status {
		return false
	}
	if p.PaymentStatus == types.PaymentStatusPaid {
		return false
	}
	if status == types.PaymentStatusPending {
		return false
	}

	p.PaymentStatus = status
	if status == types.PaymentStatusPaid {
		if paidAt != nil {
			at := paidAt.UTC()
			p.PaidAt = &at
		} else {
			now := time.Now().UTC()
			p.PaidAt = &now
		}
	}
	return true
}
