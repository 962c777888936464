// Package stats computes global ledger statistics on demand.
package stats

import (
	"context"

	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/types"
)

// Engine reduces over the current order and customer collections.
// It keeps no state and persists nothing, so a snapshot can never be
// stale independent of the ledger it was computed from. There are no
// incremental counters to keep correct under partial failure.
type Engine struct {
	store storage.Store
}

// New creates a new statistics Engine
func New(store storage.Store) *Engine {
	return &Engine{store: store}
}

// Snapshot computes the current global statistics. An empty ledger
// yields all zeros; in particular the average order value is 0, not a
// division error.
func (e *Engine) Snapshot(ctx context.Context) (*types.StatisticsSnapshot, error) {
	orders, revenue, err := e.store.OrderTotals(ctx)
	if err != nil {
		return nil, err
	}

	customers, err := e.store.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	var average types.Cents
	if orders > 0 {
		// Half-up to the cent
		average = (revenue + types.Cents(orders)/2) / types.Cents(orders)
	}

	return &types.StatisticsSnapshot{
		TotalCustomers:    customers,
		TotalOrders:       orders,
		TotalRevenue:      revenue,
		AverageOrderValue: average,
	}, nil
}
