package domain

import "time"

type OrderPlacedEvent struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  string      `json:"customer_id"`
	Email       string      `json:"email"`
	Items       []OrderItem `json:"items"`
	Subtotal    int64       `json:"subtotal"`
	Tax         int64       `json:"tax"`
	Amount      int64       `json:"amount"`
	Timestamp   time.Time   `json:"timestamp"`
}
