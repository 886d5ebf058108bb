package config

import (
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultJWTSecret = "your-secret-key"

// Config holds all configuration for the service.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	MinIOEndpoint      string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey     string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey     string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket        string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL        bool   `mapstructure:"MINIO_USE_SSL"`
	MinIOPublicBaseURL string `mapstructure:"MINIO_PUBLIC_BASE_URL"`

	RedisAddress      string        `mapstructure:"REDIS_ADDRESS"`
	SubmissionLockTTL time.Duration `mapstructure:"SUBMISSION_LOCK_TTL"`
	NATSURL           string        `mapstructure:"NATS_URL"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`

	GeocodeAPIKey      string `mapstructure:"GEOCODE_API_KEY"`
	GeocodeBaseURL     string `mapstructure:"GEOCODE_BASE_URL"`
	GeolocationEnabled bool   `mapstructure:"GEOLOCATION_ENABLED"`

	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom      string `mapstructure:"SMTP_FROM"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// SMTPEnabled reports whether owner notifications can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

// LoadConfig reads configuration from environment variables. A .env file, if any, is
// loaded into the environment by main beforehand.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "house-marketplace")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "house_marketplace")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "listings-images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_PUBLIC_BASE_URL", "")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("SUBMISSION_LOCK_TTL", "2m")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("GEOCODE_API_KEY", "")
	v.SetDefault("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("GEOLOCATION_ENABLED", true)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9094")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.JWTSecret == defaultJWTSecret || cfg.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is set to its default insecure value or is empty. Please set a strong secret in your environment.")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is not set")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("MONGO_DATABASE is not set")
	}
	if cfg.GeolocationEnabled && cfg.GeocodeAPIKey == "" {
		appLogger.Warn("GEOLOCATION_ENABLED is on but GEOCODE_API_KEY is empty; address lookups will fail")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("minio_endpoint", cfg.MinIOEndpoint),
		zap.String("minio_bucket", cfg.MinIOBucket),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.Bool("geolocation_enabled", cfg.GeolocationEnabled),
		zap.Bool("smtp_enabled", cfg.SMTPEnabled()),
		zap.Duration("submission_lock_ttl", cfg.SubmissionLockTTL),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)
	return &cfg, nil
}
