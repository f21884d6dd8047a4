package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/orderstack/braintree-gateway/internal/gateway"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// AdminHandler exposes read-only gateway settings and velocity resets for
// support tooling. Mounted behind admin JWT auth.
type AdminHandler struct {
	gateway  *gateway.Gateway
	velocity VelocityChecker
	logger   *logging.Logger
}

func NewAdminHandler(gw *gateway.Gateway, vel VelocityChecker, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{gateway: gw, velocity: vel, logger: logger}
}

// GetSettings returns the three administratively-edited preferences.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg := h.gateway.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"client_sdk_enabled":       cfg.ClientSDKEnabled,
		"token_generation_enabled": cfg.TokenGenerationEnabled,
		"merchant_account_id":      cfg.MerchantAccountID,
		"supports_stored_profiles": h.gateway.SupportsStoredProfiles(),
	})
}

type velocityResetRequest struct {
	Email         string `json:"email,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// ResetVelocity clears velocity counters for an email and/or a transaction.
func (h *AdminHandler) ResetVelocity(w http.ResponseWriter, r *http.Request) {
	if h.velocity == nil {
		writeError(w, http.StatusServiceUnavailable, "velocity checks not configured")
		return
	}

	var req velocityResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" && req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "email or transaction_id required")
		return
	}

	if req.Email != "" {
		if err := h.velocity.ResetCheckout(r.Context(), req.Email); err != nil {
			h.logger.Error("velocity reset failed", "error", err, "email", req.Email)
			writeError(w, http.StatusInternalServerError, "reset failed")
			return
		}
	}
	if req.TransactionID != "" {
		if err := h.velocity.ResetRefund(r.Context(), req.TransactionID); err != nil {
			h.logger.Error("velocity reset failed", "error", err, "transaction_id", req.TransactionID)
			writeError(w, http.StatusInternalServerError, "reset failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
