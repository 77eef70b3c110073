package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codemasters_backend/internal/email"
	"codemasters_backend/internal/events"
	apphttp "codemasters_backend/internal/http"
	"codemasters_backend/internal/http/router"
	"codemasters_backend/internal/inquiries"
	"codemasters_backend/internal/inquiries/repository"
	"codemasters_backend/internal/inquiries/service"
	"codemasters_backend/internal/inquiries/sheets"
	"codemasters_backend/internal/notification"
	"codemasters_backend/platform/config"
	"codemasters_backend/platform/db"
	"codemasters_backend/platform/httpkit"
	"codemasters_backend/platform/logger"
	"codemasters_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	mongoClient, store := initMongo(ctx, cfg, log)
	if mongoClient != nil {
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(disconnectCtx)
		}()
	}

	limiter, closeLimiter := initRateLimiter(ctx, cfg, log)
	if closeLimiter != nil {
		defer closeLimiter()
	}

	sheetsWriter := sheets.NewWriter(cfg, initSheetsAPI(ctx, cfg, log), log)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	var sender email.Sender = email.NoopSender{}
	staffTo := ""
	if cfg.GetNotifyEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		staffTo = cfg.GetNotifyEmailTo()
	}
	notification.New(sender, staffTo, log).RegisterHandlers(eventBus)

	inquiryService := service.New(store, sheetsWriter, eventBus, log)
	inquiriesModule := inquiries.NewModule(inquiryService, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:        cfg,
		Logger:        log,
		Health:        db.NewPinger(mongoClient),
		SheetsEnabled: sheetsWriter.Enabled(),
		Limiter:       limiter,
		Modules: []apphttp.Module{
			inquiriesModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr, "mongo", mongoClient != nil, "sheets", sheetsWriter.Enabled())
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if err := eventBus.Wait(shutdownCtx); err != nil {
		log.Warn("event handlers still running at shutdown", "error", err)
	}
	log.Info("server stopped")
}

// initMongo connects to the document store. The store stays nil when the
// store is not configured or unreachable so submissions keep flowing to the
// remaining sink.
func initMongo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*mongo.Client, service.InquiryStore) {
	if !cfg.IsMongoEnabled() {
		log.Warn("MONGODB_URI not configured; inquiries will not be stored in MongoDB")
		return nil, nil
	}

	var client *mongo.Client
	if err := withRetry(ctx, log, "mongodb connection", 3, 2*time.Second, func() error {
		c, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		log.Error("failed to connect to mongodb; continuing without it", "error", err)
		return nil, nil
	}

	log.Info("mongodb connection established", "database", cfg.GetMongoDatabase(), "collection", cfg.GetMongoCollection())
	return client, repository.New(client, cfg.GetMongoDatabase(), cfg.GetMongoCollection())
}

func initRateLimiter(ctx context.Context, cfg config.RateLimitConfig, log *logger.Logger) (httpkit.Limiter, func()) {
	if cfg.GetRedisURL() == "" {
		log.Info("REDIS_URL not configured; using in-process rate limiter")
		return httpkit.NewIPRateLimiter(cfg.GetRateLimitMax(), cfg.GetRateLimitWindow()), nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; using in-process rate limiter", "error", err)
		return httpkit.NewIPRateLimiter(cfg.GetRateLimitMax(), cfg.GetRateLimitWindow()), nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis not reachable at startup; limiter fails open until it is", "error", err)
	}

	return httpkit.NewRedisWindowLimiter(client, cfg.GetRateLimitMax(), cfg.GetRateLimitWindow()), func() {
		_ = client.Close()
	}
}

func initSheetsAPI(ctx context.Context, cfg config.SheetsConfig, log *logger.Logger) sheets.API {
	if cfg.GetSheetsSpreadsheetID() == "" {
		log.Warn("GOOGLE_SHEETS_SPREADSHEET_ID not set; spreadsheet sink disabled")
		return nil
	}
	if reason := cfg.GetServiceAccountError(); reason != "" {
		log.Warn("spreadsheet sink disabled", "reason", reason)
		return nil
	}

	api, err := sheets.NewGoogleAPI(ctx, cfg.GetServiceAccountJSON())
	if err != nil {
		log.Error("failed to initialize google sheets client", "error", err)
		return nil
	}
	return api
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
