package velocity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// Checker rate-limits payment activity for fraud prevention: repeated
// checkout attempts against the same buyer email and repeated refund requests
// against the same processor transaction.
type Checker struct {
	redis  *redis.Client
	logger *logging.Logger
	config Config
}

// Config contains velocity check configuration.
type Config struct {
	// Max checkout attempts per email per window
	MaxCheckoutsPerEmail int
	CheckoutWindow       time.Duration

	// Max refund requests per processor transaction per window
	MaxRefundsPerTransaction int
	RefundWindow             time.Duration

	EnableCheckoutCheck bool
	EnableRefundCheck   bool
}

// DefaultConfig returns default velocity limits.
func DefaultConfig() Config {
	return Config{
		MaxCheckoutsPerEmail:     3,
		CheckoutWindow:           24 * time.Hour,
		MaxRefundsPerTransaction: 1,
		RefundWindow:             7 * 24 * time.Hour,
		EnableCheckoutCheck:      true,
		EnableRefundCheck:        true,
	}
}

// Result contains the result of a velocity check.
type Result struct {
	Allowed      bool
	CheckType    string
	CurrentCount int
	MaxAllowed   int
	WindowExpiry time.Time
	Message      string
}

// NewChecker creates a velocity checker.
func NewChecker(redisClient *redis.Client, config Config, logger *logging.Logger) *Checker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Checker{
		redis:  redisClient,
		logger: logger,
		config: config,
	}
}

// CheckCheckout checks whether another checkout attempt is allowed for the
// given email. Fails open when Redis is unavailable.
func (c *Checker) CheckCheckout(ctx context.Context, email string) (*Result, error) {
	if !c.config.EnableCheckoutCheck {
		return &Result{Allowed: true, CheckType: "checkout"}, nil
	}

	key := fmt.Sprintf("velocity:checkout:%s", email)
	count, expiry, err := c.incrementAndGet(ctx, key, c.config.CheckoutWindow)
	if err != nil {
		c.logger.Error("velocity check failed", "error", err, "key", key)
		return &Result{Allowed: true, CheckType: "checkout", Message: "velocity check unavailable"}, nil
	}

	result := &Result{
		Allowed:      count <= c.config.MaxCheckoutsPerEmail,
		CheckType:    "checkout",
		CurrentCount: count,
		MaxAllowed:   c.config.MaxCheckoutsPerEmail,
		WindowExpiry: expiry,
	}

	if !result.Allowed {
		result.Message = fmt.Sprintf("exceeded %d checkout attempts in %s", c.config.MaxCheckoutsPerEmail, c.config.CheckoutWindow)
		c.logger.Warn("checkout velocity exceeded",
			"email", email,
			"count", count,
			"max", c.config.MaxCheckoutsPerEmail,
		)
	}

	return result, nil
}

// CheckRefund checks whether another refund request is allowed for the given
// processor transaction. Fails open when Redis is unavailable.
func (c *Checker) CheckRefund(ctx context.Context, transactionID string) (*Result, error) {
	if !c.config.EnableRefundCheck {
		return &Result{Allowed: true, CheckType: "refund"}, nil
	}

	key := fmt.Sprintf("velocity:refund:%s", transactionID)
	count, expiry, err := c.incrementAndGet(ctx, key, c.config.RefundWindow)
	if err != nil {
		c.logger.Error("velocity check failed", "error", err, "key", key)
		return &Result{Allowed: true, CheckType: "refund", Message: "velocity check unavailable"}, nil
	}

	result := &Result{
		Allowed:      count <= c.config.MaxRefundsPerTransaction,
		CheckType:    "refund",
		CurrentCount: count,
		MaxAllowed:   c.config.MaxRefundsPerTransaction,
		WindowExpiry: expiry,
	}

	if !result.Allowed {
		result.Message = fmt.Sprintf("exceeded %d refund requests in %s", c.config.MaxRefundsPerTransaction, c.config.RefundWindow)
		c.logger.Warn("refund velocity exceeded",
			"transaction_id", transactionID,
			"count", count,
			"max", c.config.MaxRefundsPerTransaction,
		)
	}

	return result, nil
}

// incrementAndGet increments a counter and returns the new value with expiry time.
func (c *Checker) incrementAndGet(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	count, err := c.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	// Set expiry only on first increment
	if count == 1 {
		c.redis.Expire(ctx, key, window)
	}

	ttl, err := c.redis.TTL(ctx, key).Result()
	if err != nil {
		ttl = window
	}

	return int(count), time.Now().Add(ttl), nil
}

// ResetCheckout resets the checkout counter for an email (admin use).
func (c *Checker) ResetCheckout(ctx context.Context, email string) error {
	key := fmt.Sprintf("velocity:checkout:%s", email)
	return c.redis.Del(ctx, key).Err()
}

// ResetRefund resets the refund counter for a transaction (admin use).
func (c *Checker) ResetRefund(ctx context.Context, transactionID string) error {
	key := fmt.Sprintf("velocity:refund:%s", transactionID)
	return c.redis.Del(ctx, key).Err()
}
