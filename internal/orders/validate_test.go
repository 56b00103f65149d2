package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretail/pos-checkout/internal/domain"
)

func validRequest() PlacementRequest {
	return PlacementRequest{
		CustomerName: "Sam Harper",
		Email:        "sam@example.com",
		Phone:        "555-0101",
		Address:      "1 Main St",
		Items:        []LineItemRequest{{ProductID: "p1", Quantity: 2}},
	}
}

func TestPlacementRequestValidate(t *testing.T) {
	t.Run("accepts a complete request", func(t *testing.T) {
		require.NoError(t, validRequest().Validate())
	})

	t.Run("accepts an explicit status", func(t *testing.T) {
		req := validRequest()
		req.Status = domain.OrderStatusPaid
		require.NoError(t, req.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*PlacementRequest)
		wantMsg string
	}{
		{
			name:    "missing customer name",
			mutate:  func(r *PlacementRequest) { r.CustomerName = "" },
			wantMsg: "customer name is required",
		},
		{
			name:    "missing email",
			mutate:  func(r *PlacementRequest) { r.Email = "" },
			wantMsg: "email is required",
		},
		{
			name:    "missing phone",
			mutate:  func(r *PlacementRequest) { r.Phone = "" },
			wantMsg: "phone is required",
		},
		{
			name:    "missing address",
			mutate:  func(r *PlacementRequest) { r.Address = "" },
			wantMsg: "address is required",
		},
		{
			name:    "empty cart",
			mutate:  func(r *PlacementRequest) { r.Items = nil },
			wantMsg: "at least one line item is required",
		},
		{
			name:    "missing product id",
			mutate:  func(r *PlacementRequest) { r.Items[0].ProductID = "" },
			wantMsg: "product id is required",
		},
		{
			name:    "zero quantity",
			mutate:  func(r *PlacementRequest) { r.Items[0].Quantity = 0 },
			wantMsg: "quantity must be positive",
		},
		{
			name:    "negative quantity",
			mutate:  func(r *PlacementRequest) { r.Items[0].Quantity = -3 },
			wantMsg: "quantity must be positive",
		},
		{
			name:    "unknown status",
			mutate:  func(r *PlacementRequest) { r.Status = "shipped" },
			wantMsg: "unknown order status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
