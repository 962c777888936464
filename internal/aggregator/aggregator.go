package aggregator

import (
	"context"
	"sort"

	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/types"
)

// Aggregator maintains the per-customer spending aggregates in
// lockstep with the order ledger. The customer collection is strictly
// derived: it must never diverge from what Derive over the full order
// history would produce, except transiently after an absorb failure,
// and Rebuild restores it.
type Aggregator struct {
	store storage.Store
}

// New creates a new Aggregator backed by the given store
func New(store storage.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Absorb folds a freshly recorded order into its customer aggregate.
// First order for a tax ID creates the customer; later orders
// increment the count, add the total, and refresh the name
// (most-recent-wins, name variants are not reconciled). The order
// itself is already committed when Absorb runs; a failure here never
// rolls it back.
func (a *Aggregator) Absorb(ctx context.Context, order *types.Order) error {
	if err := a.store.ApplyOrder(ctx, order); err != nil {
		return &types.PersistenceError{Op: "customer absorb", Err: err}
	}
	return nil
}

// Rebuild recomputes every customer aggregate from scratch by scanning
// the full order history. It is the repair path for aggregates left
// stale by an absorb failure. Idempotent, and safe to run alongside
// normal reads: the swap happens in one storage transaction.
func (a *Aggregator) Rebuild(ctx context.Context) error {
	orders, err := a.store.ScanOrdersAsc(ctx)
	if err != nil {
		return &types.PersistenceError{Op: "rebuild scan", Err: err}
	}
	if err := a.store.ReplaceCustomers(ctx, Derive(orders)); err != nil {
		return &types.PersistenceError{Op: "rebuild replace", Err: err}
	}
	return nil
}

// ListAll returns all customer aggregates
func (a *Aggregator) ListAll(ctx context.Context) ([]*types.Customer, error) {
	return a.store.ListCustomers(ctx)
}

// Derive folds a sequence of orders into customer aggregates. Orders
// must be in append order so the latest name wins. The result is
// sorted by tax ID, matching the store's listing order.
func Derive(orders []*types.Order) []*types.Customer {
	byTaxID := make(map[string]*types.Customer)
	for _, order := range orders {
		customer, ok := byTaxID[order.CustomerTaxID]
		if !ok {
			customer = &types.Customer{TaxID: order.CustomerTaxID}
			byTaxID[order.CustomerTaxID] = customer
		}
		customer.Name = order.CustomerName
		customer.TotalOrders++
		customer.TotalSpent += order.Total
	}

	customers := make([]*types.Customer, 0, len(byTaxID))
	for _, customer := range byTaxID {
		customers = append(customers, customer)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].TaxID < customers[j].TaxID
	})
	return customers
}
