package types

import (
	"github.com/shopspring/decimal"
)

// RoundToCents rounds a monetary amount half-up to 2 decimal places.
// Rounding is applied once per line item, never on the unrounded
// aggregate: summing rounded items can differ from rounding the raw
// sum by a cent, and issued invoices depend on the per-item variant.
func RoundToCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FormatAmount renders a monetary amount with exactly 2 decimal places
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
