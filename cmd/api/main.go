package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/onarrival/onarrival/internal/auth"
	"github.com/onarrival/onarrival/internal/config"
	"github.com/onarrival/onarrival/internal/handlers"
	middlewareCustom "github.com/onarrival/onarrival/internal/middleware"
	"github.com/onarrival/onarrival/internal/notify"
	"github.com/onarrival/onarrival/internal/ratelimit"
	"github.com/onarrival/onarrival/internal/routes"
	"github.com/onarrival/onarrival/internal/services"
	"github.com/onarrival/onarrival/internal/storage"
	pkghttp "github.com/onarrival/onarrival/pkg/http"
	pkglogger "github.com/onarrival/onarrival/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if cfg.Auth.SecretGenerated {
		logger.Warn("SECRET_KEY not set, generated an ephemeral secret; session tokens will not survive a restart")
	}

	// Load API credentials from the environment
	credStore, err := auth.LoadCredentials(logger)
	if err != nil {
		logger.Error("failed to load API credentials", slog.Any("error", err))
		os.Exit(1)
	}

	// Security services
	auditLogger := pkglogger.NewAuditLogger(logger)
	lockout := auth.NewLockoutTracker(cfg.Auth.LockoutWindow, cfg.Auth.MaxFailedAttempts)
	limiter := ratelimit.New()
	codec := auth.NewSessionTokenCodec(cfg.Auth.SecretKey, cfg.Auth.SessionTimeout)
	manager := auth.NewManager(credStore, lockout, codec, logger, auditLogger)

	guard := auth.NewRequestGuard(manager, limiter, auth.GuardConfig{
		DefaultLimit:    cfg.Limits.APIPerWindow,
		RateLimitWindow: cfg.Limits.Window,
		TrustedProxies:  cfg.Auth.TrustedProxies,
	}, logger, auditLogger)

	// Contact group storage
	groupStore, err := storage.NewGroupStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error("failed to open group storage", slog.Any("error", err))
		os.Exit(1)
	}

	// Notification channel
	var notifier notify.Notifier
	switch cfg.Notify.Channel {
	case "ses":
		notifier, err = notify.NewSESNotifier(cfg.Notify.AWSRegion, cfg.Notify.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize SES notifier", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		notifier = notify.NewLogNotifier(logger)
	}

	alertService := services.NewAlertService(groupStore, notifier, logger, auditLogger)

	// Handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Auth.TrustedProxies}
	authHandler := handlers.NewAuthHandler(manager, limiter, cfg.Limits.AuthPerWindow, cfg.Limits.Window, ipConfig)
	groupHandler := handlers.NewGroupHandler(groupStore)
	alertHandler := handlers.NewAlertHandler(alertService)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middlewareCustom.FloodLimitByIP(middlewareCustom.DefaultFloodLimit()))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	alertQuota := routes.AlertQuota{PerWindow: cfg.Limits.AlertsPerWindow, Window: cfg.Limits.Window}
	routes.RegisterRoutes(router, guard, limiter, alertQuota, authHandler, groupHandler, alertHandler)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
