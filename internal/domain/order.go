package domain

import "time"

type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusReversed  OrderStatus = "reversed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPaid, OrderStatusReversed, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal states accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusReversed || s == OrderStatusCancelled
}

// OrderItem carries the price snapshot taken from the product at the moment
// the order was placed. It never tracks the product's live price.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Customer    Customer    `json:"customer"`
	Items       []OrderItem `json:"items"`
	Subtotal    int64       `json:"subtotal"`
	Tax         int64       `json:"tax"`
	Amount      int64       `json:"amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}
