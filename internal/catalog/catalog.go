// Package catalog holds the fixed café menu the UI builds carts from.
// Prices are in integer cents.
package catalog

import "github.com/casacalmo/cafeledger/pkg/types"

// Product is one menu entry
type Product struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price types.Cents `json:"price"`
}

var products = []Product{
	{ID: "espresso", Name: "Espresso", Price: 600},
	{ID: "coado", Name: "Café Coado", Price: 500},
	{ID: "cappuccino", Name: "Cappuccino", Price: 1000},
	{ID: "latte", Name: "Latte", Price: 1100},
	{ID: "pao-de-queijo", Name: "Pão de Queijo", Price: 800},
	{ID: "bolo-cenoura", Name: "Bolo de Cenoura", Price: 900},
	{ID: "coxinha", Name: "Coxinha", Price: 850},
	{ID: "suco-laranja", Name: "Suco de Laranja", Price: 950},
}

// List returns the full menu in display order
func List() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// Get looks up a product by ID
func Get(id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
