package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/openretail/pos-checkout/internal/domain"
)

type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, s)
}

type updateRequest struct {
	TaxEnabled bool           `json:"tax_enabled"`
	TaxMode    domain.TaxMode `json:"tax_mode"`
	TaxRate    int64          `json:"tax_rate"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.TaxMode.Valid() {
		h.writeError(w, http.StatusBadRequest, "tax_mode must be percent or flat")
		return
	}
	if req.TaxRate < 0 {
		h.writeError(w, http.StatusBadRequest, "tax_rate must not be negative")
		return
	}

	s := domain.Settings{
		TaxEnabled: req.TaxEnabled,
		TaxMode:    req.TaxMode,
		TaxRate:    req.TaxRate,
	}
	if err := h.repo.Update(r.Context(), s); err != nil {
		h.logger.Error("failed to update settings", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("settings updated", "tax_enabled", s.TaxEnabled, "tax_mode", s.TaxMode, "tax_rate", s.TaxRate)
	h.writeJSON(w, http.StatusOK, s)
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
