package types

import "time"

// ServiceFeePercent is the optional service charge applied on top of
// the order subtotal.
const ServiceFeePercent = 10

// OrderItem represents one line of an order. Items are immutable once
// attached to an Order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice Cents  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (i OrderItem) LineTotal() Cents {
	return i.UnitPrice * Cents(i.Quantity)
}

// OrderInput is the payload the checkout flow hands to the ledger.
// The tax ID may still carry display formatting; the ledger strips it
// before validation.
type OrderInput struct {
	CustomerName      string      `json:"customer_name"`
	CustomerTaxID     string      `json:"customer_tax_id"`
	Items             []OrderItem `json:"items"`
	ServiceFeeApplied bool        `json:"service_fee_applied"`
}

// Order is one finalized, immutable purchase transaction. Orders are
// append-only: once recorded they are never updated or deleted.
type Order struct {
	ID            int64  `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerTaxID string `json:"customer_tax_id"`

	Items []OrderItem `json:"items"`

	Subtotal          Cents `json:"subtotal"`
	ServiceFeeApplied bool  `json:"service_fee_applied"`
	ServiceFee        Cents `json:"service_fee"`
	Total             Cents `json:"total"`

	CreatedAt time.Time `json:"created_at"`
}

// ServiceFeeFor returns the service charge for a subtotal: 10% rounded
// half-up to the cent.
func ServiceFeeFor(subtotal Cents) Cents {
	return (subtotal*ServiceFeePercent + 50) / 100
}

// NewOrder builds an Order from validated input, computing the derived
// amounts. The caller is responsible for normalizing the tax ID first;
// the ID is assigned by storage on append.
func NewOrder(in OrderInput, createdAt time.Time) (*Order, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	var subtotal Cents
	items := make([]OrderItem, len(in.Items))
	for idx, item := range in.Items {
		items[idx] = item
		subtotal += item.LineTotal()
	}

	var fee Cents
	if in.ServiceFeeApplied {
		fee = ServiceFeeFor(subtotal)
	}

	return &Order{
		CustomerName:      in.CustomerName,
		CustomerTaxID:     in.CustomerTaxID,
		Items:             items,
		Subtotal:          subtotal,
		ServiceFeeApplied: in.ServiceFeeApplied,
		ServiceFee:        fee,
		Total:             subtotal + fee,
		CreatedAt:         createdAt,
	}, nil
}

// ValidateInput checks an OrderInput against the recording rules:
// non-empty customer name, an 11-digit tax ID, at least one item, and
// positive quantities with non-negative prices.
func ValidateInput(in OrderInput) error {
	if in.CustomerName == "" {
		return &ValidationError{Field: "customer_name", Reason: "must not be empty"}
	}
	if !isDigits(in.CustomerTaxID) || len(in.CustomerTaxID) != 11 {
		return &ValidationError{Field: "customer_tax_id", Reason: "must be exactly 11 digits"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items", Reason: "quantity must be positive"}
		}
		if item.UnitPrice < 0 {
			return &ValidationError{Field: "items", Reason: "unit price must not be negative"}
		}
	}
	return nil
}

// Validate checks the arithmetic invariants of a recorded order:
// subtotal equals the sum of line totals, the fee matches the applied
// flag, and total = subtotal + fee.
func (o *Order) Validate() error {
	var subtotal Cents
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	if o.Subtotal != subtotal {
		return &ValidationError{Field: "subtotal", Reason: "does not match item line totals"}
	}

	want := Cents(0)
	if o.ServiceFeeApplied {
		want = ServiceFeeFor(o.Subtotal)
	}
	if o.ServiceFee != want {
		return &ValidationError{Field: "service_fee", Reason: "does not match service fee rule"}
	}

	if o.Total != o.Subtotal+o.ServiceFee {
		return &ValidationError{Field: "total", Reason: "does not equal subtotal plus service fee"}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
