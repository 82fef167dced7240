package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/courierrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/otprepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	root, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			logger.Error("failed to close composition root", "error", closeErr)
		}
	}()

	jobManager := jobs.NewJobManager(
		root.CreateSweepExpiredOTPCommandHandler(),
		root.CreateRetryGeocodeCommandHandler(),
		configs.OTPRetention,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	root.CreateServer().RegisterRoutes(e)

	go func() {
		if serveErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); serveErr != nil &&
			serveErr != http.ErrServerClosed {
			log.Fatalf("HTTP server stopped: %v", serveErr)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&otprepo.ChallengeDTO{},
		&auditrepo.AuditEntryDTO{},
	)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		KafkaHost:              envOrDefault("KAFKA_HOST", "localhost:9092"),
		KafkaOrderChangedTopic: envOrDefault("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),

		GeocoderURL: envOrDefault("GEOCODER_URL", "http://localhost:8090/geocode"),
		MediaDir:    envOrDefault("MEDIA_DIR", "./media"),

		OTPTTL:       envDuration("OTP_TTL", 10*time.Minute),
		OTPRetention: envDuration("OTP_RETENTION", commands.DefaultOTPRetention),
		OTPDevMode:   envBool("OTP_DEV_MODE"),

		TrackingKeepalive: envDuration("TRACKING_KEEPALIVE", 25*time.Second),
		TrustThreshold:    envFloat("TRUST_THRESHOLD", 80),
		MaxPhotoBytes:     envInt64("MAX_PHOTO_BYTES", commands.DefaultMaxPhotoBytes),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Warnf("Invalid duration for %s: %v", key, err)
		return fallback
	}
	return parsed
}

func envBool(key string) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warnf("Invalid number for %s: %v", key, err)
		return fallback
	}
	return parsed
}

func envInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Warnf("Invalid number for %s: %v", key, err)
		return fallback
	}
	return parsed
}
