package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/eckwms-mondialrelay/internal/app"
	"github.com/xelth-com/eckwms-mondialrelay/internal/config"
	"github.com/xelth-com/eckwms-mondialrelay/internal/handlers"
	"github.com/xelth-com/eckwms-mondialrelay/internal/logging"
	"github.com/xelth-com/eckwms-mondialrelay/internal/services/shipping"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log, "api")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Database, schema and carrier senders
	a, err := app.Build(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Odoo sync (background)
	a.Odoo.Start(ctx)

	// 4. HTTP router
	router := handlers.NewRouter(a.DB, cfg.JWTSecret, logger.Named("http"))
	router.SetShippingService(a.Shipping)
	if a.MondialRelay != nil {
		router.SetMondialRelay(a.MondialRelay)
	}

	// 5. Pending shipments worker
	var worker *shipping.Worker
	if cfg.Worker.Enabled {
		worker = shipping.NewWorker(a.Shipping, cfg.Worker.Schedule, logger.Named("worker"))
	}
	cron, err := startWorker(ctx, worker)
	if err != nil {
		logger.Fatal("Failed to start dispatch worker", zap.Error(err))
	}

	// 6. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.NodeEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sig := <-shutdown
	logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Wait for a running dispatch batch before closing the database
	if cron != nil {
		select {
		case <-cron.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("Dispatch worker did not stop in time")
		}
	}

	logger.Info("Closing database connection")
	if err := a.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
