// Package pos exposes the order ledger to the point-of-sale UI: the
// one facade the screens record through and read from.
package pos

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/casacalmo/cafeledger/internal/aggregator"
	"github.com/casacalmo/cafeledger/internal/ledger"
	"github.com/casacalmo/cafeledger/internal/stats"
	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/types"
)

// Service wires the storage gateway, ledger, aggregator, and
// statistics engine behind the narrow interface the UI consumes.
// Construct one per process and call Initialize before anything else.
type Service struct {
	store  storage.Store
	ledger *ledger.Ledger
	agg    *aggregator.Aggregator
	stats  *stats.Engine
	log    *zap.Logger
}

// New assembles a Service over an already-open store
func New(store storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	agg := aggregator.New(store)
	return &Service{
		store:  store,
		ledger: ledger.New(store, agg),
		agg:    agg,
		stats:  stats.New(store),
		log:    log,
	}
}

// Open opens (or creates) the ledger database at dbPath and assembles
// the Service over it. Initialize must still be called.
func Open(dbPath string, log *zap.Logger) (*Service, error) {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	return New(store, log), nil
}

// Initialize prepares the storage schema. Idempotent: the UI calls it
// unconditionally on every process start, and re-invocation neither
// duplicates schema nor loses existing orders and customers.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.store.Migrate(ctx); err != nil {
		return &types.PersistenceError{Op: "initialize", Err: err}
	}
	return nil
}

// RecordOrder records a finalized order. When the returned error is a
// *types.AggregationError the order was still durably recorded and is
// returned alongside it; checkout should be reported as successful
// and the divergence repaired with Rebuild.
func (s *Service) RecordOrder(ctx context.Context, in types.OrderInput) (*types.Order, error) {
	order, err := s.ledger.RecordOrder(ctx, in)

	var aerr *types.AggregationError
	if errors.As(err, &aerr) {
		s.log.Warn("order recorded but customer aggregate is stale",
			zap.Int64("order_id", order.ID),
			zap.String("tax_id", aerr.TaxID),
			zap.Error(aerr.Err),
		)
	}
	return order, err
}

// ListAllOrders returns every order, most recent first
func (s *Service) ListAllOrders(ctx context.Context) ([]*types.Order, error) {
	return s.ledger.ListAll(ctx)
}

// ListAllCustomers returns every customer aggregate
func (s *Service) ListAllCustomers(ctx context.Context) ([]*types.Customer, error) {
	return s.agg.ListAll(ctx)
}

// ListOrdersForCustomer returns one customer's orders, most recent
// first. Formatted tax IDs are accepted.
func (s *Service) ListOrdersForCustomer(ctx context.Context, taxID string) ([]*types.Order, error) {
	return s.ledger.ListByCustomer(ctx, taxID)
}

// Statistics computes the current global statistics snapshot
func (s *Service) Statistics(ctx context.Context) (*types.StatisticsSnapshot, error) {
	return s.stats.Snapshot(ctx)
}

// Rebuild re-derives every customer aggregate from the order history.
// Safe to run at any time; the prescribed repair after an
// AggregationError.
func (s *Service) Rebuild(ctx context.Context) error {
	return s.agg.Rebuild(ctx)
}

// History is the combined read the history screen renders from
type History struct {
	Orders     []*types.Order            `json:"orders"`
	Customers  []*types.Customer         `json:"customers"`
	Statistics *types.StatisticsSnapshot `json:"statistics"`
}

// LoadHistory fetches orders, customers, and statistics concurrently.
// Reads only, so the fan-out is safe in the single-writer model.
func (s *Service) LoadHistory(ctx context.Context) (*History, error) {
	var history History

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.ListAllOrders(ctx)
		history.Orders = orders
		return err
	})
	g.Go(func() error {
		customers, err := s.ListAllCustomers(ctx)
		history.Customers = customers
		return err
	})
	g.Go(func() error {
		snapshot, err := s.Statistics(ctx)
		history.Statistics = snapshot
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &history, nil
}

// Close releases the underlying storage
func (s *Service) Close() error {
	return s.store.Close()
}
