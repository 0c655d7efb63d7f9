package subscription

import (
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/shopspring/decimal"
)

// PlanChange is one entry in a subscription's plan-change ledger: an
// interval of constant price and unit count. Start is inclusive, End is
// exclusive and nil only for the most recent entry.
type PlanChange struct {
	Start        time.Time       `json:"start"`
	End          *time.Time      `json:"end,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Units        int64           `json:"units"`
}

// IsOpen reports whether the entry is still accumulating time.
func (c *PlanChange) IsOpen() bool {
	return c.End == nil
}

// ChangePlan appends a plan change to the ledger.
//
// The first change starts at the subscription's anchor date and must
// not carry a change date, since there is nothing to close. Every later
// change requires a change date: the open entry is closed at that
// instant and the new entry starts there, keeping the ledger
// contiguous. Two changes on the same calendar day are legal and
// produce two prorated line items.
func (s *Subscription) ChangePlan(pricePerUnit decimal.Decimal, units int64, changeDate *time.Time) error {
	if pricePerUnit.IsNegative() {
		return ierr.NewError("price per unit must not be negative").
			WithHintf("got price per unit %s", pricePerUnit).
			Mark(ierr.ErrValidation)
	}
	if units < 1 {
		return ierr.NewError("units must be at least 1").
			WithHintf("got %d units", units).
			Mark(ierr.ErrValidation)
	}

	if len(s.Changes) == 0 {
		if changeDate != nil {
			return ierr.NewError("change date not allowed for the first plan change").
				WithHint("The first plan change always starts at the subscription anchor date").
				Mark(ierr.ErrInvalidOperation)
		}
		s.Changes = append(s.Changes, &PlanChange{
			Start:        s.AnchorDate,
			PricePerUnit: pricePerUnit,
			Units:        units,
		})
		return nil
	}

	if changeDate == nil {
		return ierr.NewError("change date is required").
			WithHint("A change date is needed to close the current plan entry").
			Mark(ierr.ErrValidation)
	}

	current := s.Changes[len(s.Changes)-1]
	if changeDate.Before(current.Start) {
		return ierr.NewError("change date precedes the current plan entry").
			WithHintf("change date %s is before current entry start %s", changeDate, current.Start).
			Mark(ierr.ErrValidation)
	}

	end := changeDate.UTC()
	current.End = &end
	s.Changes = append(s.Changes, &PlanChange{
		Start:        end,
		PricePerUnit: pricePerUnit,
		Units:        units,
	})
	return nil
}

// AdvanceLedgerTo moves the open ledger entry's start forward to the
// given period start after that period has been billed. Without this
// the open entry would keep belonging to an already-invoiced period
// and later periods would select no entries at all.
func (s *Subscription) AdvanceLedgerTo(periodStart time.Time) {
	current := s.CurrentPlan()
	if current == nil {
		return
	}
	if current.Start.Before(periodStart) {
		current.Start = periodStart
	}
}

// CurrentPlan returns the open ledger entry, or nil when no plan has
// been set yet.
func (s *Subscription) CurrentPlan() *PlanChange {
	if len(s.Changes) == 0 {
		return nil
	}
	last := s.Changes[len(s.Changes)-1]
	if !last.IsOpen() {
		return nil
	}
	return last
}
