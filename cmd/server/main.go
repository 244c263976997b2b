package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "github.com/amparo/backoffice/internal/application/financeiro"
	"github.com/amparo/backoffice/internal/domain/financeiro"
	"github.com/amparo/backoffice/internal/infrastructure/asaas"
	"github.com/amparo/backoffice/internal/infrastructure/backendapi"
	"github.com/amparo/backoffice/internal/infrastructure/cache"
	"github.com/amparo/backoffice/internal/infrastructure/config"
	"github.com/amparo/backoffice/internal/infrastructure/logger"
	"github.com/amparo/backoffice/internal/interfaces/http/handler"
	"github.com/amparo/backoffice/internal/interfaces/http/middleware"
	"github.com/amparo/backoffice/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Amparo back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Read-model cache
	rm, err := cache.NewFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create read-model cache", zap.Error(err))
	}
	defer func() {
		if err := rm.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	// Backend client (system of record for financial accounts)
	backend, err := backendapi.NewClient(backendapi.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.Timeout,
	}, backendapi.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Gateway client. In development the proxy credentials may be absent; the
	// service still starts and reconciliation reports the missing integration.
	var gateway app.GatewayClient
	gateway, err = asaas.NewClient(asaas.Config{
		BaseURL:   cfg.Asaas.BaseURL,
		ClientID:  cfg.Asaas.ClientID,
		Token:     cfg.Asaas.Token,
		Tenant:    cfg.App.Tenant,
		Timeout:   cfg.Asaas.Timeout,
		RateLimit: cfg.Asaas.RateLimit,
		Burst:     cfg.Asaas.Burst,
	}, asaas.WithLogger(log))
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to create gateway client", zap.Error(err))
		}
		log.Warn("Gateway integration disabled", zap.Error(err))
		gateway = disabledGateway{err: err}
	}

	// Application services
	ledger := app.NewLedgerService(backend, rm,
		app.WithLogger(log),
		app.WithCacheTTL(cfg.Cache.TTL),
	)
	reconciliation := app.NewReconciliationService(backend, gateway,
		app.WithReconciliationLogger(log),
	)

	// HTTP interface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.HTTP.CORSAllowOrigins}),
		middleware.Tenant(cfg.App.Tenant),
	)

	router.NewRouter(engine).
		Register(handler.NewFinanceiroHandler(ledger, reconciliation)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// disabledGateway stands in for the Asaas client when the proxy credentials
// are not configured
type disabledGateway struct {
	err error
}

func (g disabledGateway) ListPayments(ctx context.Context, params asaas.ListParams) ([]financeiro.AsaasPayment, error) {
	return nil, g.err
}
