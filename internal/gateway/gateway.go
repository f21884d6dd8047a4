package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/orderstack/braintree-gateway/internal/braintree"
	"github.com/orderstack/braintree-gateway/internal/intake"
	"github.com/orderstack/braintree-gateway/internal/observability/metrics"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// TokenGenerationDisabledMessage is returned by GenerateToken when token
// generation is administratively disabled. Returned in place of a token so UI
// flows that merely display it keep working.
const TokenGenerationDisabledMessage = "Token generation is disabled." +
	" To re-enable set the `token_generation_enabled` preference on the" +
	" gateway to `true`."

// Processor is the transaction primitive surface the gateway drives. The
// production implementation is *braintree.Client; tests substitute a mock.
type Processor interface {
	Sale(ctx context.Context, params braintree.SaleParams) (*braintree.Result, error)
	SubmitForSettlement(ctx context.Context, transactionID, amount string) (*braintree.Result, error)
	Refund(ctx context.Context, transactionID, amount string) (*braintree.Result, error)
	Void(ctx context.Context, transactionID string) (*braintree.Result, error)
	GenerateClientToken(ctx context.Context) (string, error)
}

var _ Processor = (*braintree.Client)(nil)

// Config holds the per-installation gateway preferences. Loaded once at
// construction, read-only afterwards.
type Config struct {
	// ClientSDKEnabled gates browser SDK initialization in the checkout UI.
	ClientSDKEnabled bool
	// TokenGenerationEnabled gates minting of client tokens.
	TokenGenerationEnabled bool
	// MerchantAccountID selects a sub-merchant account when set.
	MerchantAccountID string
}

// DefaultConfig matches the gateway's out-of-the-box preferences.
func DefaultConfig() Config {
	return Config{
		ClientSDKEnabled:       true,
		TokenGenerationEnabled: true,
	}
}

// Gateway maps the payment lifecycle operations onto processor calls and
// normalizes every result into an Outcome. Stateless per call; safe for
// concurrent use.
type Gateway struct {
	cfg       Config
	processor Processor
	logger    *logging.Logger
	metrics   *metrics.PaymentMetrics
}

// New creates a gateway over the given processor client.
func New(cfg Config, processor Processor, logger *logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{
		cfg:       cfg,
		processor: processor,
		logger:    logger,
	}
}

// WithMetrics attaches payment metrics.
func (g *Gateway) WithMetrics(m *metrics.PaymentMetrics) *Gateway {
	g.metrics = m
	return g
}

// Config returns the gateway preferences.
func (g *Gateway) Config() Config {
	return g.cfg
}

// GatewayKind implements intake.MethodRef so a Transaction can verify it
// references this gateway.
func (g *Gateway) GatewayKind() string {
	return intake.GatewayKindBraintree
}

var _ intake.MethodRef = (*Gateway)(nil)

// Purchase authorizes and settles in one step ("sale"). The source is vaulted
// on success so it can be reused without re-collecting a nonce.
func (g *Gateway) Purchase(ctx context.Context, amountCents int64, source intake.Source) (*Outcome, error) {
	return g.sale(ctx, "purchase", amountCents, source, braintree.TransactionOptions{
		StoreInVaultOnSuccess: true,
		SubmitForSettlement:   true,
	})
}

// Authorize reserves funds to be captured later. The source is vaulted on
// success.
func (g *Gateway) Authorize(ctx context.Context, amountCents int64, source intake.Source) (*Outcome, error) {
	return g.sale(ctx, "authorize", amountCents, source, braintree.TransactionOptions{
		StoreInVaultOnSuccess: true,
	})
}

// Capture submits a previously authorized transaction for settlement. The
// amount may be less than the original authorization (partial settlement) but
// never more; the processor enforces the ceiling.
func (g *Gateway) Capture(ctx context.Context, amountCents int64, transactionID string) (*Outcome, error) {
	start := time.Now()
	res, err := g.processor.SubmitForSettlement(ctx, transactionID, MajorUnits(amountCents))
	return g.finish(ctx, "capture", start, res, err)
}

// Credit refunds a settled transaction, fully or partially.
func (g *Gateway) Credit(ctx context.Context, amountCents int64, transactionID string) (*Outcome, error) {
	start := time.Now()
	res, err := g.processor.Refund(ctx, transactionID, MajorUnits(amountCents))
	return g.finish(ctx, "credit", start, res, err)
}

// Void cancels an authorized-but-unsettled transaction. No amount: the whole
// authorization is released.
func (g *Gateway) Void(ctx context.Context, transactionID string) (*Outcome, error) {
	start := time.Now()
	res, err := g.processor.Void(ctx, transactionID)
	return g.finish(ctx, "void", start, res, err)
}

// GenerateToken mints a client token for the browser SDK. When token
// generation is disabled it returns the fixed sentinel message without
// contacting the processor.
func (g *Gateway) GenerateToken(ctx context.Context) (string, error) {
	if !g.cfg.TokenGenerationEnabled {
		g.metrics.ObserveToken("disabled")
		return TokenGenerationDisabledMessage, nil
	}
	token, err := g.processor.GenerateClientToken(ctx)
	if err != nil {
		g.metrics.ObserveToken("error")
		return "", fmt.Errorf("gateway: generate token: %w", err)
	}
	g.metrics.ObserveToken("generated")
	return token, nil
}

// CreateProfile is a no-op: payment methods are stored through the
// vault-on-success flag during Purchase/Authorize, so there is nothing
// additional to provision per payer.
func (g *Gateway) CreateProfile(ctx context.Context, source intake.Source) error {
	return nil
}

// SupportsStoredProfiles reports that a vaulted payment source may be reused
// across purchases.
func (g *Gateway) SupportsStoredProfiles() bool {
	return true
}

func (g *Gateway) sale(ctx context.Context, operation string, amountCents int64, source intake.Source, opts braintree.TransactionOptions) (*Outcome, error) {
	start := time.Now()
	res, err := g.processor.Sale(ctx, braintree.SaleParams{
		Amount:             MajorUnits(amountCents),
		PaymentMethodNonce: source.Nonce,
		DeviceData:         source.DeviceData,
		MerchantAccountID:  g.cfg.MerchantAccountID,
		Options:            opts,
	})
	return g.finish(ctx, operation, start, res, err)
}

// finish normalizes a processor result and records the operation. Transport
// errors propagate; everything the processor answered becomes an Outcome.
func (g *Gateway) finish(_ context.Context, operation string, start time.Time, res *braintree.Result, err error) (*Outcome, error) {
	elapsed := time.Since(start).Seconds()
	if err != nil {
		g.metrics.ObserveOperation(operation, "transport_error", elapsed)
		g.logger.Error("processor call failed", "operation", operation, "error", err)
		return nil, fmt.Errorf("gateway: %s: %w", operation, err)
	}

	outcome := newOutcome(res)
	result := "success"
	if !outcome.Success {
		result = "gateway_rejected"
	}
	g.metrics.ObserveOperation(operation, result, elapsed)

	if outcome.Success {
		g.logger.Info("gateway operation succeeded",
			"operation", operation,
			"transaction_id", outcome.ProcessorTransactionID,
		)
	} else {
		g.logger.Warn("gateway operation rejected",
			"operation", operation,
			"transaction_id", outcome.ProcessorTransactionID,
			"decline_code", outcome.DeclineCode,
			"message", outcome.Message,
		)
	}
	return outcome, nil
}
