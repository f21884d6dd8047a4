package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/orderstack/braintree-gateway/internal/gateway"
	"github.com/orderstack/braintree-gateway/internal/intake"
	"github.com/orderstack/braintree-gateway/internal/store"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// CheckoutHandler turns a checkout payload into a validated transaction and a
// purchase or authorize call against the gateway.
type CheckoutHandler struct {
	gateway  *gateway.Gateway
	payments PaymentStore
	velocity VelocityChecker
	logger   *logging.Logger
}

type checkoutRequest struct {
	Nonce               string            `json:"nonce"`
	PaymentType         string            `json:"payment_type"`
	Email               string            `json:"email"`
	Phone               string            `json:"phone,omitempty"`
	DeviceData          string            `json:"device_data,omitempty"`
	PaypalFundingSource string            `json:"paypal_funding_source,omitempty"`
	AddressAttributes   map[string]string `json:"address_attributes,omitempty"`
	AmountCents         int64             `json:"amount_cents"`
	// Intent selects "purchase" (default, authorize and settle in one step)
	// or "authorize" (capture later).
	Intent string `json:"intent,omitempty"`
}

func NewCheckoutHandler(gw *gateway.Gateway, payments PaymentStore, vel VelocityChecker, logger *logging.Logger) *CheckoutHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CheckoutHandler{
		gateway:  gw,
		payments: payments,
		velocity: vel,
		logger:   logger,
	}
}

func (h *CheckoutHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount_cents must be positive")
		return
	}
	intent := req.Intent
	if intent == "" {
		intent = "purchase"
	}
	if intent != "purchase" && intent != "authorize" {
		writeError(w, http.StatusBadRequest, "intent must be purchase or authorize")
		return
	}

	tx := &intake.Transaction{
		Nonce:               req.Nonce,
		PaymentMethod:       h.gateway,
		PaymentType:         req.PaymentType,
		Email:               req.Email,
		Phone:               req.Phone,
		DeviceData:          req.DeviceData,
		PaypalFundingSource: req.PaypalFundingSource,
	}
	if req.AddressAttributes != nil {
		tx.SetAddressAttributes(req.AddressAttributes)
	}

	if errs := tx.Validate(); !errs.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": errs.ByField(),
			"fields": errs.Fields(),
		})
		return
	}

	if h.velocity != nil {
		check, err := h.velocity.CheckCheckout(r.Context(), req.Email)
		if err == nil && !check.Allowed {
			h.logger.Warn("checkout blocked by velocity", "email", req.Email)
			writeError(w, http.StatusTooManyRequests, check.Message)
			return
		}
	}

	payment, err := h.payments.CreatePayment(r.Context(), req.AmountCents, "USD", req.Email)
	if err != nil {
		h.logger.Error("failed to persist payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create payment")
		return
	}

	var outcome *gateway.Outcome
	if intent == "authorize" {
		outcome, err = h.gateway.Authorize(r.Context(), req.AmountCents, tx.Source())
	} else {
		outcome, err = h.gateway.Purchase(r.Context(), req.AmountCents, tx.Source())
	}
	if err != nil {
		// Transport failure: the caller may retry; the row stays pending so
		// support tooling can reconcile against the processor.
		h.logger.Error("processor unreachable", "error", err, "payment_id", payment.ID)
		writeError(w, http.StatusBadGateway, "payment processor unavailable")
		return
	}

	status := store.StatusFailed
	if outcome.Success {
		status = store.StatusCaptured
		if intent == "authorize" {
			status = store.StatusAuthorized
		}
	}
	if _, err := h.payments.UpdateStatus(r.Context(), payment.ID, status, outcome.ProcessorTransactionID, outcome.DeclineCode); err != nil {
		h.logger.Error("failed to update payment after gateway call",
			"error", err,
			"payment_id", payment.ID,
			"transaction_id", outcome.ProcessorTransactionID,
		)
	}

	resp := newOutcomeResponse(outcome)
	resp.PaymentID = payment.ID.String()
	if outcome.Success {
		writeJSON(w, http.StatusCreated, resp)
	} else {
		writeJSON(w, http.StatusPaymentRequired, resp)
	}
}
