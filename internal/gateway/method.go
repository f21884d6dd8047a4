package gateway

import (
	"context"

	"github.com/orderstack/braintree-gateway/internal/intake"
)

// PaymentMethod is the surface a generic order-processing system depends on
// polymorphically across payment-method implementations; this gateway is one
// concrete implementer.
type PaymentMethod interface {
	intake.MethodRef

	Purchase(ctx context.Context, amountCents int64, source intake.Source) (*Outcome, error)
	Authorize(ctx context.Context, amountCents int64, source intake.Source) (*Outcome, error)
	Capture(ctx context.Context, amountCents int64, transactionID string) (*Outcome, error)
	Credit(ctx context.Context, amountCents int64, transactionID string) (*Outcome, error)
	Void(ctx context.Context, transactionID string) (*Outcome, error)

	GenerateToken(ctx context.Context) (string, error)
	SupportsStoredProfiles() bool
}

var _ PaymentMethod = (*Gateway)(nil)
