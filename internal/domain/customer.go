package domain

import "time"

// Customer rows are keyed by email. The first order from an email creates the
// row; later orders reuse it without touching name, phone or address.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
