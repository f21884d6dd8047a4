package braintree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderstack/braintree-gateway/pkg/logging"
)

var tracer trace.Tracer = otel.Tracer("braintree-gateway.internal.braintree")

// Client is a thin server-to-server client for the Braintree transaction API.
// It exposes the raw primitives the gateway builds on: sale, submit for
// settlement, refund, void and client-token generation.
//
// Processor-level refusals (declines, gateway rejections, validation errors)
// come back as a well-formed *Result. Only transport failures — network
// errors, timeouts, unparseable bodies — surface as Go errors.
type Client struct {
	baseURL    string
	merchantID string
	publicKey  string
	privateKey string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a Braintree API client authenticated with the merchant's
// public/private key pair.
func NewClient(merchantID, publicKey, privateKey string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    "https://api.braintreegateway.com",
		merchantID: merchantID,
		publicKey:  publicKey,
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the Braintree API host (e.g., sandbox).
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// TransactionOptions are the per-call flags forwarded on a sale.
type TransactionOptions struct {
	StoreInVaultOnSuccess bool `json:"store_in_vault_on_success"`
	SubmitForSettlement   bool `json:"submit_for_settlement"`
}

// SaleParams describes a sale (authorization, optionally settled in the same
// call). Amount is a major-unit decimal string.
type SaleParams struct {
	Amount             string             `json:"amount"`
	PaymentMethodNonce string             `json:"payment_method_nonce"`
	DeviceData         string             `json:"device_data,omitempty"`
	MerchantAccountID  string             `json:"merchant_account_id,omitempty"`
	Options            TransactionOptions `json:"options"`
}

// Transaction is the processor's view of a transaction, reduced to the fields
// the gateway consumes.
type Transaction struct {
	ID                     string `json:"id"`
	Status                 string `json:"status"`
	Amount                 string `json:"amount"`
	ProcessorResponseCode  string `json:"processor_response_code"`
	ProcessorResponseText  string `json:"processor_response_text"`
	GatewayRejectionReason string `json:"gateway_rejection_reason"`
	AVSResponseCode        string `json:"avs_response_code"`
	CVVResponseCode        string `json:"cvv_response_code"`
}

// Result is the normalized shape every transaction primitive returns.
type Result struct {
	Success     bool
	Transaction *Transaction
	Message     string
}

// Sale creates a transaction from a payment-method nonce.
func (c *Client) Sale(ctx context.Context, params SaleParams) (*Result, error) {
	ctx, span := tracer.Start(ctx, "braintree.sale")
	defer span.End()
	span.SetAttributes(
		attribute.String("braintree.amount", params.Amount),
		attribute.Bool("braintree.submit_for_settlement", params.Options.SubmitForSettlement),
	)

	path := fmt.Sprintf("/merchants/%s/transactions", c.merchantID)
	return c.transactionRequest(ctx, http.MethodPost, path, map[string]any{"transaction": params})
}

// SubmitForSettlement settles a previously authorized transaction, fully or
// partially.
func (c *Client) SubmitForSettlement(ctx context.Context, transactionID, amount string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "braintree.submit_for_settlement")
	defer span.End()
	span.SetAttributes(attribute.String("braintree.transaction_id", transactionID))

	path := fmt.Sprintf("/merchants/%s/transactions/%s/submit_for_settlement", c.merchantID, transactionID)
	return c.transactionRequest(ctx, http.MethodPut, path, map[string]any{
		"transaction": map[string]any{"amount": amount},
	})
}

// Refund returns settled funds, fully or partially.
func (c *Client) Refund(ctx context.Context, transactionID, amount string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "braintree.refund")
	defer span.End()
	span.SetAttributes(attribute.String("braintree.transaction_id", transactionID))

	path := fmt.Sprintf("/merchants/%s/transactions/%s/refund", c.merchantID, transactionID)
	return c.transactionRequest(ctx, http.MethodPost, path, map[string]any{
		"transaction": map[string]any{"amount": amount},
	})
}

// Void cancels an authorized-but-unsettled transaction.
func (c *Client) Void(ctx context.Context, transactionID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "braintree.void")
	defer span.End()
	span.SetAttributes(attribute.String("braintree.transaction_id", transactionID))

	path := fmt.Sprintf("/merchants/%s/transactions/%s/void", c.merchantID, transactionID)
	return c.transactionRequest(ctx, http.MethodPut, path, nil)
}

// GenerateClientToken mints a short-lived token for the browser SDK.
func (c *Client) GenerateClientToken(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "braintree.generate_client_token")
	defer span.End()

	path := fmt.Sprintf("/merchants/%s/client_token", c.merchantID)
	resp, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("braintree: read client token: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("braintree: client token api status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		ClientToken struct {
			Value string `json:"value"`
		} `json:"client_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("braintree: decode client token: %w", err)
	}
	if parsed.ClientToken.Value == "" {
		return "", fmt.Errorf("braintree: client token response missing value")
	}
	return parsed.ClientToken.Value, nil
}

// transactionRequest issues a transaction call and folds the response into a
// Result, whatever shape the processor chose for it.
func (c *Client) transactionRequest(ctx context.Context, method, path string, payload any) (*Result, error) {
	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("braintree: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Bad API credentials are a processor refusal, not a transport fault.
		c.logger.Error("braintree rejected api credentials", "status", resp.StatusCode, "path", path)
		return &Result{Success: false, Message: "credentials were rejected by the gateway"}, nil
	}

	var parsed struct {
		Transaction      *Transaction `json:"transaction"`
		APIErrorResponse *struct {
			Message     string       `json:"message"`
			Transaction *Transaction `json:"transaction"`
		} `json:"api_error_response"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("braintree: decode response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.APIErrorResponse != nil {
		return &Result{
			Success:     false,
			Transaction: parsed.APIErrorResponse.Transaction,
			Message:     parsed.APIErrorResponse.Message,
		}, nil
	}
	if parsed.Transaction == nil {
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("braintree: api status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("braintree: response missing transaction")
	}

	txn := parsed.Transaction
	return &Result{
		Success:     successStatus(txn.Status),
		Transaction: txn,
		Message:     resultMessage(txn),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("braintree: marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("braintree: build request: %w", err)
	}
	req.SetBasicAuth(c.publicKey, c.privateKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("braintree: http: %w", err)
	}
	return resp, nil
}

// successStatus reports whether a transaction status counts as a successful
// operation result.
func successStatus(status string) bool {
	switch status {
	case "authorized", "submitted_for_settlement", "settling", "settlement_pending", "settled", "voided":
		return true
	}
	return false
}

func resultMessage(txn *Transaction) string {
	if txn.ProcessorResponseText != "" {
		return txn.ProcessorResponseText
	}
	if txn.GatewayRejectionReason != "" {
		return "gateway rejected: " + txn.GatewayRejectionReason
	}
	return txn.Status
}
