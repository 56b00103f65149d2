package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openretail/pos-checkout/internal/domain"
)

type fakePlacer struct {
	order *domain.Order
	err   error
	got   *PlacementRequest
}

func (f *fakePlacer) PlaceOrder(_ context.Context, req PlacementRequest) (*domain.Order, error) {
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("returns 201 with the placed order", func(t *testing.T) {
		placer := &fakePlacer{
			order: &domain.Order{
				ID:          "o1",
				OrderNumber: "POS-abc",
				Customer:    domain.Customer{ID: "c1", Email: "sam@example.com"},
				Items:       []domain.OrderItem{{ProductID: "p1", Quantity: 2, Price: 500}},
				Subtotal:    1000,
				Tax:         100,
				Amount:      1100,
				Status:      domain.OrderStatusPaid,
				CreatedAt:   time.Now().UTC(),
			},
		}
		handler := NewHandler(placer, nil, nil, nil, discardLogger())

		body := `{"customerName":"Sam","email":"sam@example.com","phone":"555-0101","address":"1 Main St","items":[{"productId":"p1","quantity":2}]}`
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.OrderNumber != "POS-abc" {
			t.Errorf("unexpected order number: %s", resp.OrderNumber)
		}

		if placer.got == nil {
			t.Fatal("expected the service to be called")
		}
		if placer.got.Email != "sam@example.com" || len(placer.got.Items) != 1 || placer.got.Items[0].Quantity != 2 {
			t.Errorf("unexpected placement request: %+v", placer.got)
		}
	})

	t.Run("returns 400 for a malformed body", func(t *testing.T) {
		handler := NewHandler(&fakePlacer{}, nil, nil, nil, discardLogger())

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("maps business-rule failures to 400 with the message", func(t *testing.T) {
		for _, sentinel := range []error{ErrValidation, ErrProductNotFound, ErrPriceNotSet, ErrInsufficientStock} {
			placer := &fakePlacer{err: fmt.Errorf("Espresso is out of stock: %w", sentinel)}
			handler := NewHandler(placer, nil, nil, nil, discardLogger())

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%v: expected status 400, got %d", sentinel, rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !strings.Contains(resp["error"], "Espresso") {
				t.Errorf("%v: expected error message to name the product, got %q", sentinel, resp["error"])
			}
		}
	})

	t.Run("hides store failures behind 500", func(t *testing.T) {
		placer := &fakePlacer{err: fmt.Errorf("pq: connection refused")}
		handler := NewHandler(placer, nil, nil, nil, discardLogger())

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["error"] != "internal server error" {
			t.Errorf("expected generic error message, got %q", resp["error"])
		}
	})
}
