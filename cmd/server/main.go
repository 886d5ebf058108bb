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

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/geocoding/google"
	natsAdapter "github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/config"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/tracer"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/session"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const serviceName = "house-marketplace"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.OTExporterOTLPEndpoint != "" {
		tp, err := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	// MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	listingStore, err := mongoRepo.NewListingStore(mongoClient.Database(cfg.MongoDatabase), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingStore", zap.Error(err))
	}

	// Blob storage
	storage, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, cfg.MinIOPublicBaseURL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Redis
	redisClient, err := cache.NewRedisClient(cfg.RedisAddress)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	guard := cache.NewSubmissionGuard(redisClient, cfg.SubmissionLockTTL, appLogger)

	// NATS
	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()

	var notifier domain.Notifier
	if cfg.SMTPEnabled() {
		notifier = mailer.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.PublicBaseURL, appLogger)
	} else {
		appLogger.Info("SMTP not configured, listing saved emails disabled.")
	}

	metricsManager := metrics.NewMetricsManager(serviceName)

	submissions := usecase.NewSubmissionUsecase(usecase.SubmissionDeps{
		Sessions:  session.ContextProvider{},
		Geocoder:  google.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeAPIKey, appLogger),
		Storage:   storage,
		Store:     listingStore,
		Guard:     guard,
		Publisher: natsPublisher,
		Notifier:  notifier,
		Metrics:   metricsManager,
	}, appLogger)

	verifier := session.NewTokenVerifier(cfg.JWTSecret, appLogger)
	handler := rest.NewListingHandler(submissions, cfg.GeolocationEnabled, appLogger)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           rest.NewRouter(handler, verifier, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Application shutting down...")
}
