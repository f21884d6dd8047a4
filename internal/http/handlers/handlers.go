package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/orderstack/braintree-gateway/internal/gateway"
	"github.com/orderstack/braintree-gateway/internal/store"
	"github.com/orderstack/braintree-gateway/internal/velocity"
)

// PaymentStore records payment lifecycle rows for the order-management side.
type PaymentStore interface {
	CreatePayment(ctx context.Context, amountCents int64, currency, email string) (*store.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, processorTransactionID, declineCode string) (*store.Payment, error)
	UpdateStatusByProcessorRef(ctx context.Context, processorTransactionID, status string) (*store.Payment, error)
}

// VelocityChecker guards against repeated checkout and refund attempts.
type VelocityChecker interface {
	CheckCheckout(ctx context.Context, email string) (*velocity.Result, error)
	CheckRefund(ctx context.Context, transactionID string) (*velocity.Result, error)
	ResetCheckout(ctx context.Context, email string) error
	ResetRefund(ctx context.Context, transactionID string) error
}

// outcomeResponse is the JSON rendering of a gateway outcome.
type outcomeResponse struct {
	Success                bool   `json:"success"`
	ProcessorTransactionID string `json:"processor_transaction_id,omitempty"`
	AVSResultCode          string `json:"avs_result_code,omitempty"`
	CVVResultCode          string `json:"cvv_result_code,omitempty"`
	DeclineCode            string `json:"decline_code,omitempty"`
	Message                string `json:"message,omitempty"`
	GatewayRejection       bool   `json:"gateway_rejection"`
	PaymentID              string `json:"payment_id,omitempty"`
}

func newOutcomeResponse(o *gateway.Outcome) outcomeResponse {
	return outcomeResponse{
		Success:                o.Success,
		ProcessorTransactionID: o.ProcessorTransactionID,
		AVSResultCode:          o.AVSResultCode,
		CVVResultCode:          o.CVVResultCode,
		DeclineCode:            o.DeclineCode,
		Message:                o.Message,
		GatewayRejection:       o.GatewayRejection,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
