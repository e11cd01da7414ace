package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mercatto/pos/internal/application/cashier"
	"github.com/mercatto/pos/internal/application/checkout"
	"github.com/mercatto/pos/internal/infrastructure/backend"
	"github.com/mercatto/pos/internal/infrastructure/config"
	"github.com/mercatto/pos/internal/infrastructure/logger"
	"github.com/mercatto/pos/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS terminal service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	client, err := backend.NewClient(backend.Config{
		BaseURL:       cfg.Backend.BaseURL,
		Timeout:       cfg.Backend.Timeout,
		ReportTimeout: cfg.Backend.ReportTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}

	checkoutSvc := checkout.NewService(
		backend.NewSalesClient(client),
		backend.NewCustomersClient(client),
		log,
	)
	session := cashier.NewSessionService(
		backend.NewCashboxesClient(client),
		backend.NewLedgerClient(client),
		log,
	)

	// Resolve the open till at boot so the first status request is warm.
	// A cold backend is not fatal; the terminal refreshes on demand.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := session.Refresh(bootCtx); err != nil {
		log.Warn("Initial cashbox refresh failed", zap.Error(err))
	}
	bootCancel()

	engine := router.New(cfg, log, checkoutSvc, session)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
