// Package storage provides SQLite-based persistence for the order
// ledger and its derived customer aggregates.
//
// The storage layer manages:
//   - Orders (append-only) with their item lists
//   - Customer aggregates keyed by tax ID
//   - Schema migrations
//
// # Database Schema
//
// Tables:
//   - orders: one row per confirmed order (amounts in integer cents)
//   - order_items: the order's lines, positional, cascade-deleted
//   - customers: one row per tax ID with running count and spend
//   - schema_version: applied migration versions
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore("~/.cafeledger/cafeledger.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	err = store.InsertOrder(ctx, order) // assigns order.ID
//
// # Atomicity
//
// Every Store method is individually atomic: InsertOrder writes the
// order row and its items in one transaction, ApplyOrder is a single
// upsert, ReplaceCustomers swaps the customer set in one transaction.
// There is NO transaction spanning InsertOrder and ApplyOrder; the
// ledger layer defines the partial-failure contract for that pair.
//
// # Build Tags
//
// Two driver configurations are supported:
//
// CGO build (sqlite_cgo tag), using github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
//
// Pure Go build (default), using modernc.org/sqlite:
//
//	CGO_ENABLED=0 go build ./...
package storage
