package invoice

import (
	"time"

	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceItem is one line of an invoice. After proration a line item
// represents a fractional-time slice of one plan change: Units stays 1
// and PricePerUnit carries the already-rounded slice amount.
type InvoiceItem struct {
	ID           string          `json:"id"`
	InvoiceID    string          `json:"invoice_id"`
	Description  string          `json:"description"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Units        int64           `json:"units"`
	PeriodStart  *time.Time      `json:"period_start,omitempty"`
	PeriodEnd    *time.Time      `json:"period_end,omitempty"`
}

// NewItem creates a line item carrying a pre-computed amount.
func NewItem(description string, pricePerUnit decimal.Decimal, units int64) *InvoiceItem {
	return &InvoiceItem{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
		Description:  description,
		PricePerUnit: pricePerUnit,
		Units:        units,
	}
}

// Amount is the item's contribution to the invoice total.
func (it *InvoiceItem) Amount() decimal.Decimal {
	return it.PricePerUnit.Mul(decimal.NewFromInt(it.Units))
}
