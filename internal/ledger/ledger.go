// Package ledger owns the append-only collection of confirmed orders
// and is the single entry point for recording a new one.
package ledger

import (
	"context"
	"time"

	"github.com/casacalmo/cafeledger/internal/aggregator"
	"github.com/casacalmo/cafeledger/internal/cpf"
	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/types"
)

// Ledger records finalized orders and serves order history reads.
// Writes go through RecordOrder only; orders are immutable afterwards.
type Ledger struct {
	store storage.Store
	agg   *aggregator.Aggregator
	now   func() time.Time
}

// New creates a new Ledger over the given store and aggregator
func New(store storage.Store, agg *aggregator.Aggregator) *Ledger {
	return &Ledger{store: store, agg: agg, now: time.Now}
}

// RecordOrder validates the input, computes the order amounts,
// durably appends the order, and folds it into the customer
// aggregate. Failure semantics, in order:
//
//   - *types.ValidationError: malformed input, nothing persisted
//   - *types.PersistenceError: the append failed, nothing persisted
//     and the aggregate untouched
//   - *types.AggregationError: the order IS durably recorded (and
//     returned alongside the error) but the customer aggregate is
//     stale until Rebuild; checkout may still be reported successful
//
// The two storage steps are deliberately not a transaction pair; the
// order is the source of truth and aggregates can always be rebuilt.
func (l *Ledger) RecordOrder(ctx context.Context, in types.OrderInput) (*types.Order, error) {
	in.CustomerTaxID = cpf.Normalize(in.CustomerTaxID)

	order, err := types.NewOrder(in, l.now())
	if err != nil {
		return nil, err
	}

	if err := l.store.InsertOrder(ctx, order); err != nil {
		return nil, &types.PersistenceError{Op: "order append", Err: err}
	}

	if err := l.agg.Absorb(ctx, order); err != nil {
		return order, &types.AggregationError{TaxID: order.CustomerTaxID, Err: err}
	}

	return order, nil
}

// ListAll returns every recorded order, most recent first. Read
// straight from storage on each call; a read started after a
// completed write always observes it.
func (l *Ledger) ListAll(ctx context.Context) ([]*types.Order, error) {
	return l.store.ListOrders(ctx)
}

// ListByCustomer returns the orders for one tax ID, most recent
// first. The tax ID may carry display formatting.
func (l *Ledger) ListByCustomer(ctx context.Context, taxID string) ([]*types.Order, error) {
	return l.store.ListOrdersByCustomer(ctx, cpf.Normalize(taxID))
}
