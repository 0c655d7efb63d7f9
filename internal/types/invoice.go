package types

import (
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates the invoice is being assembled and can still change
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusPending indicates the invoice awaits a payment outcome from the provider
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid indicates the invoice is settled; paid invoices are immutable
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusFailed indicates the charge for the invoice failed
	InvoiceStatusFailed InvoiceStatus = "failed"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status can no longer transition on its own.
// A failed invoice may still become paid through a later webhook.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
