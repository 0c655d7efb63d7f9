// Package proration slices a billing period into priced line items,
// one per plan-change interval overlapping the period, each weighted by
// elapsed wall-clock time.
package proration

import (
	"sort"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/period"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem is one prorated slice of a billing period. Amount is already
// rounded to cents; invoice assembly carries it as the item's price
// with a unit count of 1.
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
}

// SliceForPeriod computes the prorated line items for one billing
// period from a subscription's plan-change ledger.
//
// Entries are selected when their effective end falls within the
// period: a closed entry's own end, or for the open entry the end of
// the billing period containing its start under the given anchor. The
// walk feeds each entry's end forward as the next item's start, so the
// items partition the period exactly even when several changes land on
// the same calendar day.
//
// Each item amount is rounded to cents independently. Summing rounded
// items can differ from rounding the raw sum by a cent; issued invoices
// rely on the per-item behavior, so it must not be collapsed into an
// aggregate rounding step.
func SliceForPeriod(entries []*subscription.PlanChange, billed period.Period, anchor time.Time) ([]LineItem, error) {
	selected := make([]*subscription.PlanChange, 0, len(entries))
	openCount := 0
	for _, entry := range entries {
		effectiveEnd := effectiveEnd(entry, anchor)
		if !billed.Contains(effectiveEnd) {
			continue
		}
		if entry.IsOpen() {
			openCount++
		}
		selected = append(selected, entry)
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Start.Before(selected[j].Start)
	})

	if openCount > 1 {
		return nil, ierr.NewError("plan change ledger has more than one open entry in the period").
			WithHint("Only the most recent plan change may be open-ended").
			WithReportableDetails(map[string]any{
				"open_entries": openCount,
				"period_start": billed.Start,
				"period_end":   billed.End,
			}).
			Mark(ierr.ErrInvariantViolation)
	}

	totalSeconds := decimal.NewFromInt(int64(billed.Duration() / time.Second))

	items := make([]LineItem, 0, len(selected))
	itemStart := billed.Start
	for _, entry := range selected {
		itemEnd := billed.End
		if entry.End != nil {
			itemEnd = *entry.End
		}

		sliceSeconds := decimal.NewFromInt(int64(itemEnd.Sub(itemStart) / time.Second))
		fraction := sliceSeconds.Div(totalSeconds)

		amount := types.RoundToCents(
			entry.PricePerUnit.
				Mul(decimal.NewFromInt(entry.Units)).
				Mul(fraction))

		items = append(items, LineItem{
			Description: describeSlice(itemStart, itemEnd),
			Amount:      amount,
			StartDate:   itemStart,
			EndDate:     itemEnd,
		})

		itemStart = itemEnd
	}

	return items, nil
}

// effectiveEnd is where an entry stops accruing for selection purposes:
// its own end, or for the open entry the end of the period containing
// its start.
func effectiveEnd(entry *subscription.PlanChange, anchor time.Time) time.Time {
	if entry.End != nil {
		return *entry.End
	}
	return period.Resolve(entry.Start, anchor).End
}

func describeSlice(start, end time.Time) string {
	return "Period from " + start.Format("2006-01-02") + " to " + end.Format("2006-01-02")
}
