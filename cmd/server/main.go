package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/config"
	"github.com/Galinha2/super-nova-2177/internal/database"
	"github.com/Galinha2/super-nova-2177/internal/handlers"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/repository"
	"github.com/Galinha2/super-nova-2177/internal/router"
	"github.com/Galinha2/super-nova-2177/internal/storage"
	"github.com/Galinha2/super-nova-2177/internal/telemetry"
	"github.com/Galinha2/super-nova-2177/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	envLoaded := config.LoadEnvFiles()
	cfg := config.FromEnv()

	if err := logger.InitializeServer(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== SuperNova API starting ===", zap.String("environment", cfg.Environment))
	if !envLoaded {
		logger.Log.Info(".env file not found, using system environment variables")
	}

	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName:  router.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTelEndpoint,
		Enabled:      cfg.OTelEnabled,
		SamplingRate: cfg.OTelSampling,
	})
	if err != nil {
		logger.Log.Warn("Tracing disabled", zap.Error(err))
		cfg.OTelEnabled = false
	}
	defer telemetry.Shutdown(tp)

	if err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	uploader, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	validator := validation.NewServiceValidator([]string{"database", "storage"})
	validator.Register("database", func(ctx context.Context) error {
		return database.Ping(database.DB)
	})
	validator.Register("storage", uploader.Check)
	if err := validator.ValidateServices(ctx); err != nil {
		if cfg.Environment == "production" {
			logger.Log.Fatal("Startup checks failed", zap.Error(err))
		}
		logger.Log.Warn("Continuing despite failed startup checks", zap.Error(err))
	}

	h := handlers.NewHandlers(repository.NewProposalRepository(database.DB), uploader)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	router.Setup(r, h, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("SuperNova API listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func openStorage(ctx context.Context, cfg config.Server) (storage.Uploader, error) {
	switch cfg.StorageDriver {
	case "s3":
		if cfg.AWSBucket == "" {
			return nil, fmt.Errorf("AWS_BUCKET is required when STORAGE_DRIVER=s3")
		}
		return storage.NewS3Uploader(ctx, cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
	case "local":
		return storage.NewLocalUploader(cfg.UploadDir, cfg.UploadsBaseURL())
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
