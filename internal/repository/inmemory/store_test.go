package inmemory

import (
	"context"
	"testing"

	"github.com/anchorbill/anchorbill/internal/domain/invoice"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBySubscriptionSkipsUnlinkedInvoices(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryInvoiceStore()

	linked, err := invoice.New(ctx, "cust_1", "EUR", decimal.NewFromInt(21))
	require.NoError(t, err)
	linked.SubscriptionID = lo.ToPtr("subs_1")
	require.NoError(t, store.Create(ctx, linked))

	other, err := invoice.New(ctx, "cust_1", "EUR", decimal.NewFromInt(21))
	require.NoError(t, err)
	other.SubscriptionID = lo.ToPtr("subs_2")
	require.NoError(t, store.Create(ctx, other))

	// A draft without a subscription must not match any lookup.
	unlinked, err := invoice.New(ctx, "cust_1", "EUR", decimal.NewFromInt(21))
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, unlinked))

	invoices, err := store.ListBySubscription(ctx, "subs_1")
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, linked.ID, invoices[0].ID)
}

func TestGetByProviderPaymentID(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPaymentStore()

	charged, err := payment.New(ctx, "inv_1", "cust_1", "EUR", decimal.NewFromInt(50))
	require.NoError(t, err)
	charged.ProviderPaymentID = lo.ToPtr("tr_abc123")
	require.NoError(t, store.Create(ctx, charged))

	// A payment the provider has not acknowledged yet carries no
	// provider id and must be skipped.
	pending, err := payment.New(ctx, "inv_2", "cust_1", "EUR", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, pending))

	p, err := store.GetByProviderPaymentID(ctx, "tr_abc123")
	require.NoError(t, err)
	assert.Equal(t, charged.ID, p.ID)

	_, err = store.GetByProviderPaymentID(ctx, "tr_missing")
	assert.True(t, ierr.IsNotFound(err))
}
