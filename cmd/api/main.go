package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/orderstack/braintree-gateway/internal/api/router"
	"github.com/orderstack/braintree-gateway/internal/braintree"
	appconfig "github.com/orderstack/braintree-gateway/internal/config"
	"github.com/orderstack/braintree-gateway/internal/gateway"
	"github.com/orderstack/braintree-gateway/internal/http/handlers"
	"github.com/orderstack/braintree-gateway/internal/observability/metrics"
	"github.com/orderstack/braintree-gateway/internal/store"
	"github.com/orderstack/braintree-gateway/internal/velocity"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

func main() {
	// Load .env in development; harmless when absent
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting braintree-gateway API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	metricsHandler, paymentMetrics := setupPaymentMetrics()

	client := braintree.NewClient(cfg.BraintreeMerchantID, cfg.BraintreePublicKey, cfg.BraintreePrivateKey, logger)
	if cfg.BraintreeBaseURL != "" {
		client = client.WithBaseURL(cfg.BraintreeBaseURL)
	}

	gw := gateway.New(gateway.Config{
		ClientSDKEnabled:       cfg.ClientSDKEnabled,
		TokenGenerationEnabled: cfg.TokenGenerationEnabled,
		MerchantAccountID:      cfg.BraintreeMerchantAccountID,
	}, client, logger).WithMetrics(paymentMetrics)

	pool := connectPostgresPool(context.Background(), cfg.DatabaseURL, logger)
	if pool == nil {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	defer pool.Close()
	payments := store.NewRepository(pool)

	var velocityChecker handlers.VelocityChecker
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		velocityChecker = velocity.NewChecker(redisClient, velocity.Config{
			MaxCheckoutsPerEmail:     cfg.VelocityMaxCheckouts,
			CheckoutWindow:           cfg.VelocityCheckoutWindow,
			MaxRefundsPerTransaction: cfg.VelocityMaxRefunds,
			RefundWindow:             cfg.VelocityRefundWindow,
			EnableCheckoutCheck:      true,
			EnableRefundCheck:        true,
		}, logger)
		logger.Info("velocity checks enabled", "redis_addr", cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set, velocity checks disabled")
	}

	r := router.New(&router.Config{
		Logger:           logger,
		CheckoutHandler:  handlers.NewCheckoutHandler(gw, payments, velocityChecker, logger),
		LifecycleHandler: handlers.NewLifecycleHandler(gw, payments, velocityChecker, logger),
		TokenHandler:     handlers.NewClientTokenHandler(gw, logger),
		AdminHandler:     handlers.NewAdminHandler(gw, velocityChecker, logger),
		AdminAuthSecret:  cfg.AdminJWTSecret,
		MetricsHandler:   metricsHandler,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupPaymentMetrics builds a dedicated registry so the exported series stay
// limited to process stats and payment counters.
func setupPaymentMetrics() (http.Handler, *metrics.PaymentMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	paymentMetrics := metrics.NewPaymentMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), paymentMetrics
}

func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}
