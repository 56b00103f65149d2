package orders

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/openretail/pos-checkout/internal/domain"
	"github.com/openretail/pos-checkout/internal/settings"
)

const orderNumberPrefix = "POS-"

// LineItemRequest is one product/quantity entry of an incoming cart.
type LineItemRequest struct {
	ProductID string
	Quantity  int
}

// PlacementRequest is the full input of a checkout: who is buying and what.
type PlacementRequest struct {
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Items        []LineItemRequest
	Status       domain.OrderStatus
}

// Validate rejects the request wholesale before any store access.
func (r PlacementRequest) Validate() error {
	if r.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if r.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if r.Address == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	for _, item := range r.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: line item product id is required", ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: line item quantity must be positive", ErrValidation)
		}
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, r.Status)
	}
	return nil
}

// Service places orders. Customer resolution, stock decrement, tax lookup and
// the order insert all run inside one database transaction, so a failed cart
// leaves no trace: no decremented stock, no orphan customer, no partial order.
type Service struct {
	db       *sql.DB
	logger   *slog.Logger
	placed   metric.Int64Counter
	rejected metric.Int64Counter
}

func NewService(db *sql.DB, logger *slog.Logger) (*Service, error) {
	meter := otel.Meter("orders")

	placed, err := meter.Int64Counter("pos.orders.placed",
		metric.WithDescription("Orders placed successfully"))
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter("pos.orders.rejected",
		metric.WithDescription("Placement attempts rejected by a business rule"))
	if err != nil {
		return nil, err
	}

	return &Service{
		db:       db,
		logger:   logger,
		placed:   placed,
		rejected: rejected,
	}, nil
}

func (s *Service) PlaceOrder(ctx context.Context, req PlacementRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		s.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "validation")))
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.OrderStatusPaid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	customer, err := s.resolveCustomer(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		item, err := s.reserveStock(ctx, tx, line)
		if err != nil {
			s.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "stock")))
			return nil, err
		}
		items = append(items, item)
		subtotal += item.Price * int64(item.Quantity)
	}

	taxConfig, err := settings.Load(ctx, tx)
	if err != nil {
		return nil, err
	}
	tax := taxConfig.TaxFor(subtotal)

	order := &domain.Order{
		ID:          uuid.New().String(),
		OrderNumber: orderNumberPrefix + uuid.New().String(),
		Customer:    customer,
		Items:       items,
		Subtotal:    subtotal,
		Tax:         tax,
		Amount:      subtotal + tax,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.insertOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.placed.Add(ctx, 1)
	s.logger.Info("order placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"customer_id", order.Customer.ID,
		"amount", order.Amount,
	)

	return order, nil
}

// resolveCustomer finds the customer by exact email match, creating it from
// the request on first sight. Existing rows keep their fields: first write
// wins.
func (s *Service) resolveCustomer(ctx context.Context, tx *sql.Tx, req PlacementRequest) (domain.Customer, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`, uuid.New().String(), req.CustomerName, req.Email, req.Phone, req.Address, time.Now().UTC())
	if err != nil {
		return domain.Customer{}, err
	}

	var c domain.Customer
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, email, phone, address, created_at
		FROM customers
		WHERE email = $1
	`, req.Email).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if err != nil {
		return domain.Customer{}, err
	}

	return c, nil
}

// reserveStock decrements stock for one line item and returns the line with
// the price snapshot. The conditional UPDATE both guards against oversell and
// serializes concurrent carts on the same row; a repeated product id within
// one cart observes the previous decrement.
func (s *Service) reserveStock(ctx context.Context, tx *sql.Tx, line LineItemRequest) (domain.OrderItem, error) {
	var name string
	var price int64
	err := tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2 AND price IS NOT NULL
		RETURNING name, price
	`, line.ProductID, line.Quantity).Scan(&name, &price)
	if err == nil {
		return domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: name,
			Quantity:    line.Quantity,
			Price:       price,
		}, nil
	}
	if err != sql.ErrNoRows {
		return domain.OrderItem{}, err
	}

	return domain.OrderItem{}, s.classifyReservationFailure(ctx, tx, line)
}

// classifyReservationFailure distinguishes why the conditional decrement
// matched no row: missing product, unset price, or not enough stock.
func (s *Service) classifyReservationFailure(ctx context.Context, tx *sql.Tx, line LineItemRequest) error {
	var name string
	var hasPrice bool
	var stock int
	err := tx.QueryRowContext(ctx, `
		SELECT name, price IS NOT NULL, stock
		FROM products
		WHERE id = $1
	`, line.ProductID).Scan(&name, &hasPrice, &stock)
	if err == sql.ErrNoRows {
		return fmt.Errorf("product %s: %w", line.ProductID, ErrProductNotFound)
	}
	if err != nil {
		return err
	}

	if !hasPrice {
		return fmt.Errorf("%s: %w", name, ErrPriceNotSet)
	}
	return fmt.Errorf("%s is out of stock (requested %d, available %d): %w",
		name, line.Quantity, stock, ErrInsufficientStock)
}

func (s *Service) insertOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, customer_id, subtotal, tax, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`, order.ID, order.OrderNumber, order.Customer.ID, order.Subtotal, order.Tax, order.Amount, order.Status, order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), order.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return err
		}
	}

	return nil
}
