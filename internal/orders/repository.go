package orders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/openretail/pos-checkout/internal/domain"
)

// Repository serves the read side of the order ledger and the explicit
// status-update operation. Writes happen through Service.PlaceOrder.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.order_number, o.subtotal, o.tax, o.amount, o.status, o.created_at,
		       c.id, c.name, c.email, c.phone, c.address, c.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id).Scan(
		&order.ID, &order.OrderNumber, &order.Subtotal, &order.Tax, &order.Amount, &order.Status, &order.CreatedAt,
		&order.Customer.ID, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.Customer.Address, &order.Customer.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.product_id, p.name, i.quantity, i.price
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.order_number, o.subtotal, o.tax, o.amount, o.status, o.created_at,
		       c.id, c.name, c.email, c.phone, c.address, c.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.Subtotal, &order.Tax, &order.Amount, &order.Status, &order.CreatedAt,
			&order.Customer.ID, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
			&order.Customer.Address, &order.Customer.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT i.order_id, i.product_id, p.name, i.quantity, i.price
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *orderMap[id])
	}

	return result, nil
}

// UpdateStatus moves an order to a new status. Terminal orders refuse any
// further transition.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status NOT IN ($3, $4)
	`, status, id, domain.OrderStatusReversed, domain.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		var current domain.OrderStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("order is already %s: %w", current, ErrStatusFinal)
	}

	return r.GetByID(ctx, id)
}
