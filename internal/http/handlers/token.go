package handlers

import (
	"net/http"

	"github.com/orderstack/braintree-gateway/internal/gateway"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// ClientTokenHandler mints short-lived client tokens for the browser SDK.
type ClientTokenHandler struct {
	gateway *gateway.Gateway
	logger  *logging.Logger
}

func NewClientTokenHandler(gw *gateway.Gateway, logger *logging.Logger) *ClientTokenHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClientTokenHandler{gateway: gw, logger: logger}
}

// GetToken returns a client token, or the fixed disabled message when token
// generation is switched off. Either way the response shape is the same, so
// checkout UIs can render it directly.
func (h *ClientTokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.gateway.GenerateToken(r.Context())
	if err != nil {
		h.logger.Error("client token generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "token service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"client_token":       token,
		"client_sdk_enabled": h.gateway.Config().ClientSDKEnabled,
	})
}
