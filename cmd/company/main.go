package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/merchantdesk/backoffice/internal/company"
	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/internal/company/handler"
	"github.com/merchantdesk/backoffice/internal/company/repository"
	"github.com/merchantdesk/backoffice/internal/company/usecase/command"
	"github.com/merchantdesk/backoffice/kafka"
	"github.com/merchantdesk/backoffice/pkg/database"
	"github.com/merchantdesk/backoffice/pkg/logger"
	"github.com/merchantdesk/backoffice/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "company-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting company service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "companydb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&domain.Company{},
		&domain.CompanyUser{},
		&domain.CreditAccount{},
		&domain.CreditTransaction{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Initialize handler with Wire DI
	companyHandler, err := company.InitializeHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	// Refund events restore company credit, so the service consumes them in
	// the background
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if getEnv("KAFKA_ENABLED", "true") == "true" {
		brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
		releaseHandler := command.NewReleaseCreditHandler(repository.NewGormCreditRepository(db))

		consumer, err := kafka.NewConsumer(brokers, "company-service", []string{kafka.TopicRefundCompleted})
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to create Kafka consumer, refund events will not restore credit")
		} else {
			defer consumer.Close()
			consumer.RegisterHandler(kafka.EventTypeRefundCompleted, func(ctx context.Context, event kafka.RefundCompletedEvent) error {
				if event.CompanyID == 0 {
					// personal payment, no company credit involved
					return nil
				}
				_, err := releaseHandler.Handle(ctx, command.ReleaseCreditCommand{
					CompanyID:     event.CompanyID,
					Amount:        event.Amount,
					ReferenceID:   fmt.Sprintf("payment_%d", event.PaymentID),
					ReferenceType: "refund",
				})
				return err
			})
			if err := consumer.Start(consumerCtx); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer")
			}
		}
	} else {
		logger.Logger.Warn().Msg("Kafka disabled, refund events will not restore credit")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8084")
	startHTTPServer(companyHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(companyHandler *handler.CompanyHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register all middlewares using middleware registration system
	handler.RegisterMiddlewares(router, handler.DefaultMiddlewareConfig())

	// Register routes
	companyHandler.RegisterRoutes(router)

	// Health check endpoint
	companyHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
