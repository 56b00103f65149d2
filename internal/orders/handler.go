package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openretail/pos-checkout/internal/domain"
	"github.com/openretail/pos-checkout/internal/idempotency"
	"github.com/openretail/pos-checkout/internal/messaging"
)

// Placer places a validated cart as an order.
type Placer interface {
	PlaceOrder(ctx context.Context, req PlacementRequest) (*domain.Order, error)
}

type Handler struct {
	service  Placer
	repo     *Repository
	producer *messaging.Producer
	guard    *idempotency.Guard
	logger   *slog.Logger
}

// NewHandler wires the order endpoints. producer and guard may be nil; event
// publishing and idempotency checks are then skipped.
func NewHandler(service Placer, repo *Repository, producer *messaging.Producer, guard *idempotency.Guard, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		repo:     repo,
		producer: producer,
		guard:    guard,
		logger:   logger,
	}
}

type placeOrderRequest struct {
	CustomerName string     `json:"customerName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Items        []lineItem `json:"items"`
	Status       string     `json:"status,omitempty"`
}

type lineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if h.guard != nil && idemKey != "" {
		first, err := h.guard.FirstUse(r.Context(), idemKey)
		if err != nil {
			h.logger.Error("idempotency check failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !first {
			h.writeError(w, http.StatusConflict, "duplicate request")
			return
		}
	}

	items := make([]LineItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, LineItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.service.PlaceOrder(r.Context(), PlacementRequest{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Items:        items,
		Status:       domain.OrderStatus(req.Status),
	})
	if err != nil {
		if h.guard != nil && idemKey != "" {
			if relErr := h.guard.Release(r.Context(), idemKey); relErr != nil {
				h.logger.Error("failed to release idempotency key", "error", relErr)
			}
		}
		h.writePlacementError(w, err)
		return
	}

	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  order.Customer.ID,
			Email:       order.Customer.Email,
			Items:       order.Items,
			Subtotal:    order.Subtotal,
			Tax:         order.Tax,
			Amount:      order.Amount,
			Timestamp:   order.CreatedAt,
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) writePlacementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrPriceNotSet),
		errors.Is(err, ErrInsufficientStock):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to place order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrStatusFinal):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to update order status", "error", err, "id", id)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
