package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ironclubfit/gymlead-ai/internal/api/router"
	"github.com/ironclubfit/gymlead-ai/internal/channels/instagram"
	appconfig "github.com/ironclubfit/gymlead-ai/internal/config"
	"github.com/ironclubfit/gymlead-ai/internal/conversation"
	"github.com/ironclubfit/gymlead-ai/internal/http/handlers"
	"github.com/ironclubfit/gymlead-ai/internal/leads"
	"github.com/ironclubfit/gymlead-ai/internal/notify"
	"github.com/ironclubfit/gymlead-ai/internal/observability/metrics"
	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

const handleTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting gymlead-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store", cfg.ConversationStore,
	)

	ctx := context.Background()

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize conversation store", "error", err)
		os.Exit(1)
	}

	sink, err := leads.NewSheetsSink(ctx, leads.SheetsConfig{
		CredentialsFile: cfg.GoogleCredsFile,
		SpreadsheetID:   cfg.SheetID,
		Tab:             cfg.SheetTab,
	}, logger)
	if err != nil {
		// No sink means every completed lead takes the failure branch;
		// the conversation flow itself keeps working.
		logger.Warn("lead sink unavailable", "error", err)
	}

	var notifier *notify.Service
	if emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); emailSender != nil {
		notifier = notify.NewService(emailSender, cfg.LeadNotifyEmail, logger)
	}

	reg := prometheus.NewRegistry()
	flowMetrics := metrics.NewFlowMetrics(reg)

	var engine *conversation.Engine
	adapter := instagram.NewAdapter(instagram.AdapterConfig{
		PageAccessToken: cfg.PageAccessToken,
		AppSecret:       cfg.AppSecret,
		VerifyToken:     cfg.VerifyToken,
	}, func(msg instagram.InboundMessage) {
		handleCtx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		if err := engine.HandleMessage(handleCtx, msg.SenderID, msg.Text); err != nil {
			flowMetrics.ObserveInbound("instagram", "error")
			logger.Error("failed to handle inbound message",
				"sender_id", msg.SenderID,
				"error", err,
			)
			return
		}
		flowMetrics.ObserveInbound("instagram", "ok")
	}, logger)

	engineCfg := conversation.EngineConfig{
		Store:             store,
		Sender:            adapter,
		Metrics:           flowMetrics,
		Logger:            logger,
		KeepLeadOnFailure: cfg.LeadFailurePolicy == appconfig.FailurePolicyKeep,
	}
	if sink != nil {
		engineCfg.Sink = sink
	}
	if notifier != nil {
		engineCfg.Notifier = notifier
	}
	engine = conversation.NewEngine(engineCfg)

	adminConversations := handlers.NewAdminConversationsHandler(store, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Instagram:          adapter,
		AdminConversations: adminConversations,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		FlowMetrics:        flowMetrics,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStore selects the conversation store backend from config.
func buildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.Store, error) {
	switch cfg.ConversationStore {
	case appconfig.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, err
		}
		return conversation.NewPostgresStore(pool), nil

	case appconfig.StoreRedis:
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return conversation.NewRedisStore(client), nil

	default:
		logger.Warn("using in-memory conversation store; conversations will not survive restart")
		return conversation.NewInMemoryStore(), nil
	}
}
