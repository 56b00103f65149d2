package domain

import "time"

// Product is the inventory record behind each order line. Price is in cents
// and stays nil until the product has been priced; stock is the only field
// checkout mutates.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     *int64    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
