package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/casacalmo/cafeledger/pkg/types"
)

// ErrNotFound is returned when a requested record doesn't exist
var ErrNotFound = errors.New("not found")

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Single-writer design: one connection keeps every operation serialized
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (or creates) the ledger database at dbPath.
// The schema is not touched until Migrate is called.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Migrate applies any pending schema migrations. Idempotent: calling
// it against an already-initialized database is a no-op and never
// alters existing records.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return ApplyMigrations(ctx, s.db)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Order operations

// InsertOrder appends an order together with its items. The order row
// and its item rows are written inside one transaction, so the append
// is atomic from the caller's perspective. The assigned identifier is
// written back to order.ID.
func (s *SQLiteStore) InsertOrder(ctx context.Context, order *types.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_name, customer_tax_id, subtotal, service_fee_applied, service_fee, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, order.CustomerName, order.CustomerTaxID, order.Subtotal,
		order.ServiceFeeApplied, order.ServiceFee, order.Total, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for pos, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, name, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, pos, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order insert: %w", err)
	}

	order.ID = id
	return nil
}

// GetOrder retrieves a single order with its items
func (s *SQLiteStore) GetOrder(ctx context.Context, id int64) (*types.Order, error) {
	query := `
		SELECT id, customer_name, customer_tax_id, subtotal, service_fee_applied, service_fee, total, created_at
		FROM orders
		WHERE id = ?
	`
	var order types.Order
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerName, &order.CustomerTaxID, &order.Subtotal,
		&order.ServiceFeeApplied, &order.ServiceFee, &order.Total, &order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, []*types.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns all orders, most recent first
func (s *SQLiteStore) ListOrders(ctx context.Context) ([]*types.Order, error) {
	query := `
		SELECT id, customer_name, customer_tax_id, subtotal, service_fee_applied, service_fee, total, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`
	return s.queryOrders(ctx, query)
}

// ListOrdersByCustomer returns all orders for one tax ID, most recent first
func (s *SQLiteStore) ListOrdersByCustomer(ctx context.Context, taxID string) ([]*types.Order, error) {
	query := `
		SELECT id, customer_name, customer_tax_id, subtotal, service_fee_applied, service_fee, total, created_at
		FROM orders
		WHERE customer_tax_id = ?
		ORDER BY created_at DESC, id DESC
	`
	return s.queryOrders(ctx, query, taxID)
}

// ScanOrdersAsc returns all orders in append order (oldest first);
// used by the aggregate rebuild so that most-recent-wins name
// resolution falls out of the fold.
func (s *SQLiteStore) ScanOrdersAsc(ctx context.Context) ([]*types.Order, error) {
	query := `
		SELECT id, customer_name, customer_tax_id, subtotal, service_fee_applied, service_fee, total, created_at
		FROM orders
		ORDER BY id ASC
	`
	return s.queryOrders(ctx, query)
}

func (s *SQLiteStore) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*types.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := make([]*types.Order, 0)
	for rows.Next() {
		var order types.Order
		err := rows.Scan(
			&order.ID, &order.CustomerName, &order.CustomerTaxID, &order.Subtotal,
			&order.ServiceFeeApplied, &order.ServiceFee, &order.Total, &order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the item lists for a batch of orders in one query
func (s *SQLiteStore) attachItems(ctx context.Context, orders []*types.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*types.Order, len(orders))
	placeholders := make([]string, len(orders))
	args := make([]interface{}, len(orders))
	for i, order := range orders {
		order.Items = make([]types.OrderItem, 0)
		byID[order.ID] = order
		placeholders[i] = "?"
		args[i] = order.ID
	}

	query := `
		SELECT order_id, product_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY order_id, position
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var orderID int64
		var item types.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return err
		}
		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

// Customer operations

// GetCustomer retrieves one customer aggregate by tax ID
func (s *SQLiteStore) GetCustomer(ctx context.Context, taxID string) (*types.Customer, error) {
	query := `
		SELECT tax_id, name, total_orders, total_spent
		FROM customers
		WHERE tax_id = ?
	`
	var customer types.Customer
	err := s.db.QueryRowContext(ctx, query, taxID).Scan(
		&customer.TaxID, &customer.Name, &customer.TotalOrders, &customer.TotalSpent,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns all customer aggregates ordered by tax ID
func (s *SQLiteStore) ListCustomers(ctx context.Context) ([]*types.Customer, error) {
	query := `
		SELECT tax_id, name, total_orders, total_spent
		FROM customers
		ORDER BY tax_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	customers := make([]*types.Customer, 0)
	for rows.Next() {
		var customer types.Customer
		err := rows.Scan(&customer.TaxID, &customer.Name, &customer.TotalOrders, &customer.TotalSpent)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}
	return customers, rows.Err()
}

// ApplyOrder folds one order into its customer aggregate as a single
// atomic upsert: first order creates the row, subsequent orders
// increment the count, add the total, and refresh the display name.
func (s *SQLiteStore) ApplyOrder(ctx context.Context, order *types.Order) error {
	query := `
		INSERT INTO customers (tax_id, name, total_orders, total_spent)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(tax_id) DO UPDATE SET
			name = excluded.name,
			total_orders = customers.total_orders + 1,
			total_spent = customers.total_spent + excluded.total_spent
	`
	_, err := s.db.ExecContext(ctx, query, order.CustomerTaxID, order.CustomerName, order.Total)
	if err != nil {
		return fmt.Errorf("failed to apply order to customer %s: %w", order.CustomerTaxID, err)
	}
	return nil
}

// ReplaceCustomers swaps the whole customer collection in one
// transaction. Readers see either the previous set or the new one,
// never a partial mix.
func (s *SQLiteStore) ReplaceCustomers(ctx context.Context, customers []*types.Customer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin customer replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}

	for _, customer := range customers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO customers (tax_id, name, total_orders, total_spent)
			VALUES (?, ?, ?, ?)
		`, customer.TaxID, customer.Name, customer.TotalOrders, customer.TotalSpent)
		if err != nil {
			return fmt.Errorf("failed to insert customer %s: %w", customer.TaxID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit customer replace: %w", err)
	}
	return nil
}

// Aggregate reads

// OrderTotals returns the order count and summed revenue
func (s *SQLiteStore) OrderTotals(ctx context.Context) (int, types.Cents, error) {
	var count int
	var revenue types.Cents
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders
	`).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, err
	}
	return count, revenue, nil
}

// CountCustomers returns the number of distinct customer aggregates
func (s *SQLiteStore) CountCustomers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
