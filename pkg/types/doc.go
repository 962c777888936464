// Package types provides the shared domain records for the café order
// ledger.
//
// # Core Types
//
// Order is one finalized purchase; OrderItem its lines. Amounts are
// integer cents (Cents) and the arithmetic invariants are enforced at
// construction:
//
//	order, err := types.NewOrder(types.OrderInput{
//	    CustomerName:      "Ana",
//	    CustomerTaxID:     "11111111111",
//	    Items:             []types.OrderItem{{ProductID: "espresso", Name: "Espresso", UnitPrice: 1000, Quantity: 2}},
//	    ServiceFeeApplied: true,
//	}, time.Now())
//
// Customer is the derived per-tax-ID aggregate and StatisticsSnapshot
// the computed global view; neither carries state of its own.
//
// # Errors
//
// Recording distinguishes three failure classes:
//
//   - ValidationError: the input was malformed, nothing persisted
//   - PersistenceError: the order append failed, nothing persisted
//   - AggregationError: the order is recorded, the customer aggregate
//     is stale until rebuilt
//
// Use errors.As to branch on them.
package types
