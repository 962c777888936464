package storage

import (
	"context"

	"github.com/casacalmo/cafeledger/pkg/types"
)

// Store defines the interface for persisting orders and derived
// customer aggregates. Each method is an individually atomic storage
// operation; the store does not provide multi-statement transactions
// across calls, so the append-then-aggregate pair of a checkout is
// explicitly not atomic as a pair.
type Store interface {
	// Order operations. Orders are append-only.
	InsertOrder(ctx context.Context, order *types.Order) error
	GetOrder(ctx context.Context, id int64) (*types.Order, error)
	ListOrders(ctx context.Context) ([]*types.Order, error)
	ListOrdersByCustomer(ctx context.Context, taxID string) ([]*types.Order, error)
	ScanOrdersAsc(ctx context.Context) ([]*types.Order, error)

	// Customer aggregate operations
	GetCustomer(ctx context.Context, taxID string) (*types.Customer, error)
	ListCustomers(ctx context.Context) ([]*types.Customer, error)
	ApplyOrder(ctx context.Context, order *types.Order) error
	ReplaceCustomers(ctx context.Context, customers []*types.Customer) error

	// Aggregate reads for statistics
	OrderTotals(ctx context.Context) (count int, revenue types.Cents, err error)
	CountCustomers(ctx context.Context) (int, error)

	// Database operations
	Migrate(ctx context.Context) error
	Close() error
}
