package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orderstack/braintree-gateway/internal/gateway"
	"github.com/orderstack/braintree-gateway/internal/store"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// LifecycleHandler drives capture, refund and void against transactions the
// processor already knows about. These calls carry a processor transaction id,
// not a payment source.
type LifecycleHandler struct {
	gateway  *gateway.Gateway
	payments PaymentStore
	velocity VelocityChecker
	logger   *logging.Logger
}

type amountRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func NewLifecycleHandler(gw *gateway.Gateway, payments PaymentStore, vel VelocityChecker, logger *logging.Logger) *LifecycleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LifecycleHandler{
		gateway:  gw,
		payments: payments,
		velocity: vel,
		logger:   logger,
	}
}

// Capture submits a previously authorized transaction for settlement.
func (h *LifecycleHandler) Capture(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	amount, ok := h.decodeAmount(w, r)
	if !ok {
		return
	}

	outcome, err := h.gateway.Capture(r.Context(), amount, transactionID)
	h.respond(w, r, "capture", transactionID, store.StatusCaptured, outcome, err)
}

// Refund returns settled funds, fully or partially.
func (h *LifecycleHandler) Refund(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	amount, ok := h.decodeAmount(w, r)
	if !ok {
		return
	}

	if h.velocity != nil {
		check, err := h.velocity.CheckRefund(r.Context(), transactionID)
		if err == nil && !check.Allowed {
			h.logger.Warn("refund blocked by velocity", "transaction_id", transactionID)
			writeError(w, http.StatusTooManyRequests, check.Message)
			return
		}
	}

	outcome, err := h.gateway.Credit(r.Context(), amount, transactionID)
	h.respond(w, r, "refund", transactionID, store.StatusRefunded, outcome, err)
}

// Void cancels an authorization before settlement. No amount is accepted.
func (h *LifecycleHandler) Void(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	outcome, err := h.gateway.Void(r.Context(), transactionID)
	h.respond(w, r, "void", transactionID, store.StatusVoided, outcome, err)
}

func (h *LifecycleHandler) decodeAmount(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return 0, false
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount_cents must be positive")
		return 0, false
	}
	return req.AmountCents, true
}

func (h *LifecycleHandler) respond(w http.ResponseWriter, r *http.Request, operation, transactionID, successStatus string, outcome *gateway.Outcome, err error) {
	if err != nil {
		h.logger.Error("processor unreachable", "operation", operation, "error", err, "transaction_id", transactionID)
		writeError(w, http.StatusBadGateway, "payment processor unavailable")
		return
	}

	if outcome.Success {
		if _, err := h.payments.UpdateStatusByProcessorRef(r.Context(), transactionID, successStatus); err != nil && !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("failed to update payment after lifecycle call",
				"error", err,
				"operation", operation,
				"transaction_id", transactionID,
			)
		}
		writeJSON(w, http.StatusOK, newOutcomeResponse(outcome))
		return
	}

	writeJSON(w, http.StatusPaymentRequired, newOutcomeResponse(outcome))
}
