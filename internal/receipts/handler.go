package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openretail/pos-checkout/internal/domain"
)

// Handler consumes order.placed events and emails a plain-text receipt to the
// customer through the mailer service.
type Handler struct {
	mailerURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHandler(mailerURL string, client *http.Client, logger *slog.Logger) *Handler {
	return &Handler{
		mailerURL:  mailerURL,
		httpClient: client,
		logger:     logger,
	}
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("sending receipt", "order_id", event.OrderID, "order_number", event.OrderNumber)

	if err := h.sendReceipt(ctx, event); err != nil {
		h.logger.Error("failed to send receipt", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send receipt for order %s: %w", event.OrderID, err)
	}

	h.logger.Info("receipt sent", "order_id", event.OrderID, "email", event.Email)
	return nil
}

func (h *Handler) sendReceipt(ctx context.Context, event domain.OrderPlacedEvent) error {
	body := map[string]string{
		"to":      event.Email,
		"subject": "Receipt for order " + event.OrderNumber,
		"body":    Render(event),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.mailerURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailer service returned status %d", resp.StatusCode)
	}

	return nil
}
