package types

import "fmt"

// ValidationError reports malformed order input. Nothing is persisted
// when recording fails with it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError reports that the underlying store rejected or could
// not complete a write. When it aborts the order append, nothing is
// persisted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// AggregationError reports that an order was durably recorded but the
// customer aggregate update failed. The order stands; the aggregate
// for TaxID is stale until the next rebuild. Callers must not treat
// this as a lost order.
type AggregationError struct {
	TaxID string
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("order recorded but aggregate update failed for customer %s: %v", e.TaxID, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}
