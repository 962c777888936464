package types

// Customer is the derived per-tax-ID spending aggregate. It is fully
// determined by the set of orders sharing the tax ID: TotalOrders is
// their count, TotalSpent the sum of their totals, and Name the name
// on the most recent of them. Customers are created implicitly by the
// first order and never deleted.
//
// Name follows the latest order verbatim; spelling variants for the
// same tax ID are not reconciled.
type Customer struct {
	TaxID       string `json:"tax_id"`
	Name        string `json:"name"`
	TotalOrders int    `json:"total_orders"`
	TotalSpent  Cents  `json:"total_spent"`
}

// StatisticsSnapshot is a point-in-time computed view over the whole
// ledger. It is never persisted, so it can never be stale relative to
// the orders it was computed from.
type StatisticsSnapshot struct {
	TotalCustomers    int   `json:"total_customers"`
	TotalOrders       int   `json:"total_orders"`
	TotalRevenue      Cents `json:"total_revenue"`
	AverageOrderValue Cents `json:"average_order_value"`
}
