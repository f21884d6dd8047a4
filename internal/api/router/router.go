package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/orderstack/braintree-gateway/internal/http/handlers"
	httpmiddleware "github.com/orderstack/braintree-gateway/internal/http/middleware"
	"github.com/orderstack/braintree-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	CheckoutHandler  *handlers.CheckoutHandler
	LifecycleHandler *handlers.LifecycleHandler
	TokenHandler     *handlers.ClientTokenHandler
	AdminHandler     *handlers.AdminHandler
	AdminAuthSecret  string
	MetricsHandler   http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/client-token", cfg.TokenHandler.GetToken)
		r.Post("/payments", cfg.CheckoutHandler.CreatePayment)
	})

	r.Route("/payments/{transactionID}", func(r chi.Router) {
		r.Post("/capture", cfg.LifecycleHandler.Capture)
		r.Post("/refund", cfg.LifecycleHandler.Refund)
		r.Post("/void", cfg.LifecycleHandler.Void)
	})

	// Settings and velocity resets for support tooling
	if cfg.AdminHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/settings", cfg.AdminHandler.GetSettings)
			admin.Post("/velocity/reset", cfg.AdminHandler.ResetVelocity)
		})
	}

	return r
}
