package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if !cfg.ClientSDKEnabled {
		t.Errorf("expected client SDK enabled by default")
	}
	if !cfg.TokenGenerationEnabled {
		t.Errorf("expected token generation enabled by default")
	}
	if cfg.VelocityMaxCheckouts != 3 {
		t.Errorf("expected 3 checkout attempts, got %d", cfg.VelocityMaxCheckouts)
	}
	if cfg.VelocityCheckoutWindow != 24*time.Hour {
		t.Errorf("expected 24h checkout window, got %s", cfg.VelocityCheckoutWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_GENERATION_ENABLED", "false")
	t.Setenv("BRAINTREE_MERCHANT_ID", "merchant_abc")
	t.Setenv("VELOCITY_CHECKOUT_WINDOW", "1h")

	cfg := Load()

	if cfg.TokenGenerationEnabled {
		t.Errorf("expected token generation disabled")
	}
	if cfg.BraintreeMerchantID != "merchant_abc" {
		t.Errorf("expected merchant_abc, got %s", cfg.BraintreeMerchantID)
	}
	if cfg.VelocityCheckoutWindow != time.Hour {
		t.Errorf("expected 1h window, got %s", cfg.VelocityCheckoutWindow)
	}
}
