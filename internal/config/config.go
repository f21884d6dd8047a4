package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// Braintree processor credentials
	BraintreeBaseURL           string
	BraintreeMerchantID        string
	BraintreePublicKey         string
	BraintreePrivateKey        string
	BraintreeMerchantAccountID string

	// Gateway preferences (administratively edited, read-only at runtime)
	ClientSDKEnabled       bool
	TokenGenerationEnabled bool

	// Checkout guard rails
	VelocityMaxCheckouts   int
	VelocityCheckoutWindow time.Duration
	VelocityMaxRefunds     int
	VelocityRefundWindow   time.Duration

	AdminJWTSecret string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		BraintreeBaseURL:           getEnv("BRAINTREE_BASE_URL", ""),
		BraintreeMerchantID:        getEnv("BRAINTREE_MERCHANT_ID", ""),
		BraintreePublicKey:         getEnv("BRAINTREE_PUBLIC_KEY", ""),
		BraintreePrivateKey:        getEnv("BRAINTREE_PRIVATE_KEY", ""),
		BraintreeMerchantAccountID: getEnv("BRAINTREE_MERCHANT_ACCOUNT_ID", ""),

		ClientSDKEnabled:       getEnvAsBool("CLIENT_SDK_ENABLED", true),
		TokenGenerationEnabled: getEnvAsBool("TOKEN_GENERATION_ENABLED", true),

		VelocityMaxCheckouts:   getEnvAsInt("VELOCITY_MAX_CHECKOUTS", 3),
		VelocityCheckoutWindow: getEnvAsDuration("VELOCITY_CHECKOUT_WINDOW", 24*time.Hour),
		VelocityMaxRefunds:     getEnvAsInt("VELOCITY_MAX_REFUNDS", 1),
		VelocityRefundWindow:   getEnvAsDuration("VELOCITY_REFUND_WINDOW", 7*24*time.Hour),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
