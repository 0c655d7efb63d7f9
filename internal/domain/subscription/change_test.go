package subscription

import (
	"context"
	"testing"
	"time"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := New(context.Background(), "cust_123", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return sub
}

func TestChangePlan_FirstChange(t *testing.T) {
	sub := newTestSubscription(t)

	err := sub.ChangePlan(decimal.NewFromInt(1), 50, nil)
	require.NoError(t, err)

	require.Len(t, sub.Changes, 1)
	assert.True(t, sub.Changes[0].Start.Equal(sub.AnchorDate))
	assert.Nil(t, sub.Changes[0].End)
	assert.Equal(t, int64(50), sub.Changes[0].Units)
}

func TestChangePlan_FirstChangeRejectsChangeDate(t *testing.T) {
	sub := newTestSubscription(t)

	changeDate := time.Date(2020, time.January, 10, 0, 0, 0, 0, time.UTC)
	err := sub.ChangePlan(decimal.NewFromInt(1), 50, &changeDate)
	assert.True(t, ierr.IsInvalidOperation(err))
	assert.Empty(t, sub.Changes)
}

func TestChangePlan_Validation(t *testing.T) {
	sub := newTestSubscription(t)

	err := sub.ChangePlan(decimal.NewFromInt(-1), 50, nil)
	assert.True(t, ierr.IsValidation(err))

	err = sub.ChangePlan(decimal.NewFromInt(1), 0, nil)
	assert.True(t, ierr.IsValidation(err))

	// no mutation happened on either failed call
	assert.Empty(t, sub.Changes)
}

func TestChangePlan_SubsequentChangeRequiresChangeDate(t *testing.T) {
	sub := newTestSubscription(t)
	require.NoError(t, sub.ChangePlan(decimal.NewFromInt(1), 50, nil))

	err := sub.ChangePlan(decimal.NewFromInt(2), 50, nil)
	assert.True(t, ierr.IsValidation(err))
	require.Len(t, sub.Changes, 1)
	assert.Nil(t, sub.Changes[0].End)
}

func TestChangePlan_LedgerInvariants(t *testing.T) {
	sub := newTestSubscription(t)
	require.NoError(t, sub.ChangePlan(decimal.NewFromInt(1), 50, nil))

	dates := []time.Time{
		time.Date(2020, time.January, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.January, 19, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.January, 19, 12, 0, 0, 0, time.UTC), // same-day change
	}
	for i, d := range dates {
		changeDate := d
		require.NoError(t, sub.ChangePlan(decimal.NewFromInt(int64(i+2)), 50, &changeDate))
	}

	require.Len(t, sub.Changes, 4)

	// exactly one open entry, and it is the last one
	openCount := 0
	for _, c := range sub.Changes {
		if c.IsOpen() {
			openCount++
		}
	}
	assert.Equal(t, 1, openCount)
	assert.True(t, sub.Changes[len(sub.Changes)-1].IsOpen())

	// entries are contiguous: each entry ends exactly where the next starts
	for i := 0; i < len(sub.Changes)-1; i++ {
		require.NotNil(t, sub.Changes[i].End)
		assert.True(t, sub.Changes[i].End.Equal(sub.Changes[i+1].Start),
			"entry %d end %v != entry %d start %v", i, sub.Changes[i].End, i+1, sub.Changes[i+1].Start)
	}

	current := sub.CurrentPlan()
	require.NotNil(t, current)
	assert.True(t, current.PricePerUnit.Equal(decimal.NewFromInt(4)))
}

func TestChangePlan_RejectsBackdatedChange(t *testing.T) {
	sub := newTestSubscription(t)
	require.NoError(t, sub.ChangePlan(decimal.NewFromInt(1), 50, nil))

	changeDate := time.Date(2020, time.January, 16, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sub.ChangePlan(decimal.NewFromInt(2), 50, &changeDate))

	earlier := time.Date(2020, time.January, 10, 0, 0, 0, 0, time.UTC)
	err := sub.ChangePlan(decimal.NewFromInt(3), 50, &earlier)
	assert.True(t, ierr.IsValidation(err))
}
