package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/types"
)

func setupAggregator(t *testing.T) (*Aggregator, *storage.SQLiteStore) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return New(store), store
}

func order(taxID, name string, total types.Cents, createdAt time.Time) *types.Order {
	return &types.Order{
		CustomerName:  name,
		CustomerTaxID: taxID,
		Items: []types.OrderItem{
			{ProductID: "espresso", Name: "Espresso", UnitPrice: total, Quantity: 1},
		},
		Subtotal:  total,
		Total:     total,
		CreatedAt: createdAt,
	}
}

func TestAbsorb(t *testing.T) {
	agg, store := setupAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.Absorb(ctx, order("11111111111", "Ana", 2000, time.Now())))
	require.NoError(t, agg.Absorb(ctx, order("11111111111", "Ana", 3300, time.Now())))

	customer, err := store.GetCustomer(ctx, "11111111111")
	require.NoError(t, err)
	assert.Equal(t, 2, customer.TotalOrders)
	assert.Equal(t, types.Cents(5300), customer.TotalSpent)
}

func TestDerive(t *testing.T) {
	base := time.Now()
	orders := []*types.Order{
		order("11111111111", "Ana", 2000, base),
		order("22222222222", "Bruno", 1000, base.Add(time.Minute)),
		order("11111111111", "Ana Clara", 3300, base.Add(2*time.Minute)),
	}

	customers := Derive(orders)
	require.Len(t, customers, 2)

	assert.Equal(t, "11111111111", customers[0].TaxID)
	assert.Equal(t, "Ana Clara", customers[0].Name) // latest order's name
	assert.Equal(t, 2, customers[0].TotalOrders)
	assert.Equal(t, types.Cents(5300), customers[0].TotalSpent)

	assert.Equal(t, "22222222222", customers[1].TaxID)
	assert.Equal(t, 1, customers[1].TotalOrders)
	assert.Equal(t, types.Cents(1000), customers[1].TotalSpent)
}

func TestDerive_Empty(t *testing.T) {
	assert.Empty(t, Derive(nil))
}

func TestRebuild_MatchesDerivation(t *testing.T) {
	agg, store := setupAggregator(t)
	ctx := context.Background()

	base := time.Now()
	orders := []*types.Order{
		order("11111111111", "Ana", 2000, base.Add(-2*time.Hour)),
		order("22222222222", "Bruno", 1500, base.Add(-time.Hour)),
		order("11111111111", "Ana", 3300, base),
	}
	for _, o := range orders {
		require.NoError(t, store.InsertOrder(ctx, o))
	}

	// Seed the customers table with garbage; rebuild must discard it
	require.NoError(t, store.ReplaceCustomers(ctx, []*types.Customer{
		{TaxID: "99999999999", Name: "Stale", TotalOrders: 7, TotalSpent: 1},
	}))

	require.NoError(t, agg.Rebuild(ctx))

	customers, err := agg.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, 2, customers[0].TotalOrders)
	assert.Equal(t, types.Cents(5300), customers[0].TotalSpent)
	assert.Equal(t, 1, customers[1].TotalOrders)
	assert.Equal(t, types.Cents(1500), customers[1].TotalSpent)
}

func TestRebuild_Idempotent(t *testing.T) {
	agg, store := setupAggregator(t)
	ctx := context.Background()

	require.NoError(t, store.InsertOrder(ctx, order("11111111111", "Ana", 2000, time.Now())))
	require.NoError(t, store.InsertOrder(ctx, order("22222222222", "Bruno", 1000, time.Now())))

	require.NoError(t, agg.Rebuild(ctx))
	first, err := agg.ListAll(ctx)
	require.NoError(t, err)

	require.NoError(t, agg.Rebuild(ctx))
	second, err := agg.ListAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRebuild_EmptyLedger(t *testing.T) {
	agg, _ := setupAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.Rebuild(ctx))
	customers, err := agg.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}
