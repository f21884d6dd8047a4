package braintree

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Sale_BuildsTransactionPayload(t *testing.T) {
	var gotBody map[string]any
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		if !ok || user != "pub_key" || pass != "priv_key" {
			t.Errorf("expected basic auth with key pair, got %q/%q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		_ = r.Body.Close()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transaction":{"id":"txn_abc","status":"submitted_for_settlement","amount":"10.00"}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.Sale(context.Background(), SaleParams{
		Amount:             "10.00",
		PaymentMethodNonce: "fake-valid-nonce",
		Options: TransactionOptions{
			StoreInVaultOnSuccess: true,
			SubmitForSettlement:   true,
		},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Transaction.ID != "txn_abc" {
		t.Fatalf("unexpected transaction id: %s", result.Transaction.ID)
	}

	if gotPath != "/merchants/merchant_1/transactions" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	txn, ok := gotBody["transaction"].(map[string]any)
	if !ok {
		t.Fatalf("expected transaction object, got %#v", gotBody)
	}
	if txn["amount"] != "10.00" {
		t.Fatalf("expected amount 10.00, got %#v", txn["amount"])
	}
	if txn["payment_method_nonce"] != "fake-valid-nonce" {
		t.Fatalf("expected nonce, got %#v", txn["payment_method_nonce"])
	}
	opts, ok := txn["options"].(map[string]any)
	if !ok {
		t.Fatalf("expected options object, got %#v", txn["options"])
	}
	if opts["store_in_vault_on_success"] != true || opts["submit_for_settlement"] != true {
		t.Fatalf("unexpected options: %#v", opts)
	}
}

func TestClient_Sale_ProcessorDeclineIsResultNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transaction":{"id":"txn_declined","status":"processor_declined","processor_response_code":"2001","processor_response_text":"Insufficient Funds"}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.Sale(context.Background(), SaleParams{Amount: "10.00", PaymentMethodNonce: "n"})
	if err != nil {
		t.Fatalf("decline must not be a transport error, got %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if result.Transaction.ProcessorResponseCode != "2001" {
		t.Fatalf("expected decline code 2001, got %q", result.Transaction.ProcessorResponseCode)
	}
	if result.Message != "Insufficient Funds" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestClient_Sale_APIErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"api_error_response":{"message":"Unknown payment_method_nonce."}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.Sale(context.Background(), SaleParams{Amount: "5.00", PaymentMethodNonce: "bogus"})
	if err != nil {
		t.Fatalf("validation refusal must not be a transport error, got %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if result.Message != "Unknown payment_method_nonce." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestClient_Sale_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.Sale(context.Background(), SaleParams{Amount: "5.00", PaymentMethodNonce: "n"})
	if err != nil {
		t.Fatalf("auth refusal must not be a transport error, got %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure result")
	}
}

func TestClient_Sale_MalformedBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transaction":`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	if _, err := client.Sale(context.Background(), SaleParams{Amount: "5.00", PaymentMethodNonce: "n"}); err == nil {
		t.Fatalf("expected transport error for malformed body")
	}
}

func TestClient_Sale_NetworkErrorIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	if _, err := client.Sale(context.Background(), SaleParams{Amount: "5.00", PaymentMethodNonce: "n"}); err == nil {
		t.Fatalf("expected transport error for refused connection")
	}
}

func TestClient_SubmitForSettlement(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transaction":{"id":"txn_123","status":"submitted_for_settlement","amount":"5.00"}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.SubmitForSettlement(context.Background(), "txn_123", "5.00")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/merchants/merchant_1/transactions/txn_123/submit_for_settlement" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	txn := gotBody["transaction"].(map[string]any)
	if txn["amount"] != "5.00" {
		t.Fatalf("expected amount 5.00, got %#v", txn["amount"])
	}
}

func TestClient_Refund(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transaction":{"id":"refund_1","status":"submitted_for_settlement","amount":"2.50"}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.Refund(context.Background(), "txn_123", "2.50")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if gotPath != "/merchants/merchant_1/transactions/txn_123/refund" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
}

func TestClient_Void_SendsNoBody(t *testing.T) {
	var gotPath string
	var gotLen int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLen = r.ContentLength
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transaction":{"id":"txn_123","status":"voided"}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	result, err := client.Void(context.Background(), "txn_123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success for voided status, got %+v", result)
	}
	if gotPath != "/merchants/merchant_1/transactions/txn_123/void" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotLen > 0 {
		t.Fatalf("void must not carry a payload, got %d bytes", gotLen)
	}
}

func TestClient_GenerateClientToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/merchants/merchant_1/client_token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"client_token":{"value":"tok_opaque"}}`)
	}))
	defer srv.Close()

	client := NewClient("merchant_1", "pub_key", "priv_key", nil).WithBaseURL(srv.URL)

	token, err := client.GenerateClientToken(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if token != "tok_opaque" {
		t.Fatalf("unexpected token: %q", token)
	}
}
