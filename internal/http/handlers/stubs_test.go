package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/orderstack/braintree-gateway/internal/braintree"
	"github.com/orderstack/braintree-gateway/internal/store"
	"github.com/orderstack/braintree-gateway/internal/velocity"
)

// stubProcessor plays back one canned result for every primitive.
type stubProcessor struct {
	result     *braintree.Result
	err        error
	token      string
	saleCalls  int
	lastSale   braintree.SaleParams
	lastAmount string
	lastTxnID  string
	tokenCalls int
}

func (s *stubProcessor) Sale(ctx context.Context, params braintree.SaleParams) (*braintree.Result, error) {
	s.saleCalls++
	s.lastSale = params
	return s.result, s.err
}

func (s *stubProcessor) SubmitForSettlement(ctx context.Context, transactionID, amount string) (*braintree.Result, error) {
	s.lastTxnID = transactionID
	s.lastAmount = amount
	return s.result, s.err
}

func (s *stubProcessor) Refund(ctx context.Context, transactionID, amount string) (*braintree.Result, error) {
	s.lastTxnID = transactionID
	s.lastAmount = amount
	return s.result, s.err
}

func (s *stubProcessor) Void(ctx context.Context, transactionID string) (*braintree.Result, error) {
	s.lastTxnID = transactionID
	return s.result, s.err
}

func (s *stubProcessor) GenerateClientToken(ctx context.Context) (string, error) {
	s.tokenCalls++
	return s.token, s.err
}

// stubStore records lifecycle transitions in memory.
type stubStore struct {
	created     []*store.Payment
	updates     []stubUpdate
	refUpdates  []stubRefUpdate
	createErr   error
	notFoundRef bool
}

type stubUpdate struct {
	id          uuid.UUID
	status      string
	ref         string
	declineCode string
}

type stubRefUpdate struct {
	ref    string
	status string
}

func (s *stubStore) CreatePayment(ctx context.Context, amountCents int64, currency, email string) (*store.Payment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	p := &store.Payment{
		ID:          uuid.New(),
		AmountCents: amountCents,
		Currency:    currency,
		Email:       email,
		Status:      store.StatusPending,
		CreatedAt:   time.Now(),
	}
	s.created = append(s.created, p)
	return p, nil
}

func (s *stubStore) UpdateStatus(ctx context.Context, id uuid.UUID, status, ref, declineCode string) (*store.Payment, error) {
	s.updates = append(s.updates, stubUpdate{id, status, ref, declineCode})
	return &store.Payment{ID: id, Status: status, ProcessorTransactionID: ref}, nil
}

func (s *stubStore) UpdateStatusByProcessorRef(ctx context.Context, ref, status string) (*store.Payment, error) {
	if s.notFoundRef {
		return nil, store.ErrNotFound
	}
	s.refUpdates = append(s.refUpdates, stubRefUpdate{ref, status})
	return &store.Payment{ProcessorTransactionID: ref, Status: status}, nil
}

// stubVelocity allows or blocks everything.
type stubVelocity struct {
	allow          bool
	checkoutResets []string
	refundResets   []string
}

func (s *stubVelocity) CheckCheckout(ctx context.Context, email string) (*velocity.Result, error) {
	return &velocity.Result{Allowed: s.allow, CheckType: "checkout", Message: "exceeded checkout attempts"}, nil
}

func (s *stubVelocity) CheckRefund(ctx context.Context, transactionID string) (*velocity.Result, error) {
	return &velocity.Result{Allowed: s.allow, CheckType: "refund", Message: "exceeded refund requests"}, nil
}

func (s *stubVelocity) ResetCheckout(ctx context.Context, email string) error {
	s.checkoutResets = append(s.checkoutResets, email)
	return nil
}

func (s *stubVelocity) ResetRefund(ctx context.Context, transactionID string) error {
	s.refundResets = append(s.refundResets, transactionID)
	return nil
}

func successResult(id string) *braintree.Result {
	return &braintree.Result{
		Success:     true,
		Transaction: &braintree.Transaction{ID: id, Status: "submitted_for_settlement"},
	}
}

func declineResult(id, code, text string) *braintree.Result {
	return &braintree.Result{
		Success: false,
		Transaction: &braintree.Transaction{
			ID:                    id,
			Status:                "processor_declined",
			ProcessorResponseCode: code,
			ProcessorResponseText: text,
		},
		Message: text,
	}
}
