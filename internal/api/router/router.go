package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ironclubfit/gymlead-ai/internal/channels/instagram"
	"github.com/ironclubfit/gymlead-ai/internal/http/handlers"
	httpmiddleware "github.com/ironclubfit/gymlead-ai/internal/http/middleware"
	"github.com/ironclubfit/gymlead-ai/internal/observability/metrics"
	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Instagram          *instagram.Adapter
	AdminConversations *handlers.AdminConversationsHandler
	AdminJWTSecret     string
	MetricsHandler     http.Handler
	FlowMetrics        *metrics.FlowMetrics
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)

		if cfg.Instagram != nil {
			inbound := observed(cfg.Instagram.HandleWebhook, cfg.FlowMetrics)
			public.Get("/webhook", cfg.Instagram.HandleVerification)
			public.Post("/webhook", inbound)
			// Meta app dashboards are usually configured with the channel path
			public.Get("/webhooks/instagram", cfg.Instagram.HandleVerification)
			public.Post("/webhooks/instagram", inbound)
		}

		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin endpoints
	if cfg.AdminConversations != nil {
		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Get("/admin/conversations", cfg.AdminConversations.List)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// observed wraps the inbound webhook handler with a latency histogram.
func observed(next http.HandlerFunc, m *metrics.FlowMetrics) http.HandlerFunc {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		m.ObserveWebhookLatency("instagram", time.Since(start).Seconds())
	}
}
