package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casacalmo/cafeledger/internal/aggregator"
	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/types"
)

// flakyStore wraps a real store and lets tests inject failures on
// individual write paths.
type flakyStore struct {
	storage.Store
	failInsert bool
	failApply  bool
}

var errInjected = errors.New("injected failure")

func (f *flakyStore) InsertOrder(ctx context.Context, order *types.Order) error {
	if f.failInsert {
		return errInjected
	}
	return f.Store.InsertOrder(ctx, order)
}

func (f *flakyStore) ApplyOrder(ctx context.Context, order *types.Order) error {
	if f.failApply {
		return errInjected
	}
	return f.Store.ApplyOrder(ctx, order)
}

func setupLedger(t *testing.T) (*Ledger, *flakyStore) {
	base, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, base.Migrate(context.Background()))
	t.Cleanup(func() { _ = base.Close() })

	store := &flakyStore{Store: base}
	return New(store, aggregator.New(store)), store
}

func input() types.OrderInput {
	return types.OrderInput{
		CustomerName:  "Ana",
		CustomerTaxID: "11111111111",
		Items: []types.OrderItem{
			{ProductID: "espresso", Name: "Espresso", UnitPrice: 1000, Quantity: 2},
		},
	}
}

func TestRecordOrder(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()

	order, err := l.RecordOrder(ctx, input())
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Greater(t, order.ID, int64(0))
	assert.Equal(t, types.Cents(2000), order.Subtotal)
	assert.Equal(t, types.Cents(2000), order.Total)
	assert.False(t, order.CreatedAt.IsZero())

	customer, err := store.GetCustomer(ctx, "11111111111")
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.Equal(t, types.Cents(2000), customer.TotalSpent)
}

func TestRecordOrder_NormalizesTaxID(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()

	in := input()
	in.CustomerTaxID = "111.111.111-11"
	order, err := l.RecordOrder(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "11111111111", order.CustomerTaxID)

	_, err = store.GetCustomer(ctx, "11111111111")
	require.NoError(t, err)

	// Lookup through the ledger also normalizes
	orders, err := l.ListByCustomer(ctx, "111.111.111-11")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRecordOrder_ValidationLeavesStorageUntouched(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()

	bad := []types.OrderInput{
		{CustomerName: "Ana", CustomerTaxID: "11111111111"}, // no items
		func() types.OrderInput {
			in := input()
			in.Items[0].Quantity = 0
			return in
		}(),
		func() types.OrderInput {
			in := input()
			in.Items[0].Quantity = -2
			return in
		}(),
		func() types.OrderInput {
			in := input()
			in.CustomerTaxID = "123"
			return in
		}(),
	}

	for _, in := range bad {
		order, err := l.RecordOrder(ctx, in)
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Nil(t, order)
	}

	orders, err := l.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRecordOrder_PersistenceFailure(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()

	store.failInsert = true
	order, err := l.RecordOrder(ctx, input())
	var perr *types.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, errInjected)
	assert.Nil(t, order)

	// Nothing persisted, aggregate untouched
	store.failInsert = false
	orders, err := l.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	_, err = store.GetCustomer(ctx, "11111111111")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordOrder_AggregationFailure(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()

	store.failApply = true
	order, err := l.RecordOrder(ctx, input())

	var aerr *types.AggregationError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "11111111111", aerr.TaxID)

	// The order is durably recorded and returned with the error
	require.NotNil(t, order)
	orders, listErr := l.ListAll(ctx)
	require.NoError(t, listErr)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// The aggregate is stale until rebuilt
	_, err = store.GetCustomer(ctx, "11111111111")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	store.failApply = false
	agg := aggregator.New(store)
	require.NoError(t, agg.Rebuild(ctx))

	customer, err := store.GetCustomer(ctx, "11111111111")
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.Equal(t, types.Cents(2000), customer.TotalSpent)
}

func TestListAll_Ordering(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()

	first, err := l.RecordOrder(ctx, input())
	require.NoError(t, err)
	second, err := l.RecordOrder(ctx, input())
	require.NoError(t, err)

	orders, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}
