package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ms-nametags/internal/config"
	"ms-nametags/internal/kafka"
	"ms-nametags/internal/logger"
	"ms-nametags/internal/metrics"
	"ms-nametags/internal/nametags/db"
	"ms-nametags/internal/nametags/nametag_api"
	nametags "ms-nametags/internal/nametags/service"
	"ms-nametags/internal/sheets"
)

func newActivityPublisher(ctx context.Context, cfg *config.Config, logger *logger.Logger) kafka.Publisher {
	if !cfg.Kafka.Enabled {
		logger.Info("KAFKA", "Activity feed disabled")
		return kafka.NopPublisher{}
	}

	logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers %v, topic %s", cfg.Kafka.Brokers, cfg.Kafka.Topic))
	if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, logger); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}
	return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := logger.NewLogger(cfg.Log.Dir, "nametags")
	defer logger.Close()
	logger.SetLevel(cfg.Log.Level)

	logger.Info("APP", "Starting Nametag Service initialization")
	if envErr != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()

	logger.Info("STORE", fmt.Sprintf("Opening %s event store", cfg.Store.Driver))
	kv, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("STORE", fmt.Sprintf("Failed to open event store: %v", err))
	}
	defer kv.Close()
	logger.Info("STORE", "✅ Event store ready")

	renderer, err := sheets.NewRenderer(cfg.Sheets.DPI, cfg.Sheets.PrintQR)
	if err != nil {
		logger.Fatal("SHEETS", fmt.Sprintf("Failed to set up renderer: %v", err))
	}

	activity := newActivityPublisher(ctx, cfg, logger)
	defer activity.Close()

	m := metrics.New()
	svc := nametags.NewNametagService(
		db.NewEventRepository(kv, cfg.Store.Key, logger),
		sheets.NewPDFExporter(renderer),
		activity, m, logger,
	)
	if err := svc.Load(ctx); err != nil {
		logger.Warn("STORE", "Starting with no events")
	}

	handler := nametag_api.NewHandler(svc, logger, cfg.Server.MaxUploadBytes)
	logger.Info("HTTP", "Setting up router and middleware")
	router := nametag_api.NewRouter(handler, m, cfg.Auth)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Nametag Service running on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("Server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("APP", "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server forced to shutdown: %v", err))
	}
	logger.Info("APP", "Server exited gracefully")
}
