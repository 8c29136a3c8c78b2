package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostly/api/routes"
	"hostly/internal/bookings"
	"hostly/internal/reconciler"
	"hostly/internal/shared/config"
	"hostly/internal/shared/database"
	"hostly/pkg/cache"
	"hostly/pkg/logger"
	"hostly/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	var cacheService cache.Service
	if db.Redis != nil {
		cacheService = cache.NewService(db.GetRedis())
		appLogger.Info("Redis cache service initialized")
	}

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:           cfg.RateLimit.Enabled,
			WindowDuration:    cfg.RateLimit.WindowDuration,
			DefaultRequests:   cfg.RateLimit.DefaultRequests,
			PublicRequests:    cfg.RateLimit.PublicRequests,
			BookingRequests:   cfg.RateLimit.BookingRequests,
			AnalyticsRequests: cfg.RateLimit.AnalyticsRequests,
			HealthRequests:    cfg.RateLimit.HealthRequests,
		}
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Booking-change publisher: Kafka when enabled, otherwise the
	// router falls back to in-process reconciliation.
	var publisher bookings.ChangePublisher
	var kafkaPublisher *reconciler.KafkaChangePublisher
	if cfg.Kafka.Enabled {
		publisherConfig := reconciler.DefaultPublisherConfig()
		publisherConfig.Brokers = cfg.Kafka.Brokers
		publisherConfig.Topic = cfg.Kafka.Topic

		kafkaPublisher, err = reconciler.NewKafkaChangePublisher(publisherConfig)
		if err != nil {
			appLogger.Error("failed to create Kafka publisher", slog.Any("error", err))
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		appLogger.Info("Kafka change publisher initialized", slog.String("topic", cfg.Kafka.Topic))
	}

	appRouter := routes.NewRouter(cfg, db, cacheService, publisher)
	engine := setupEngine(cfg, rateLimiter)
	appRouter.SetupRoutes(engine)

	// Reconciliation consumer
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	if cfg.Kafka.Enabled {
		consumerConfig := reconciler.DefaultConsumerConfig()
		consumerConfig.Brokers = cfg.Kafka.Brokers
		consumerConfig.GroupID = cfg.Kafka.GroupID
		consumerConfig.Topics = []string{cfg.Kafka.Topic}

		consumer, err := reconciler.NewConsumer(consumerConfig, appRouter.Applier())
		if err != nil {
			appLogger.Error("failed to create reconciler consumer", slog.Any("error", err))
			os.Exit(1)
		}
		if err := consumer.Start(consumerCtx, cfg.Kafka.Workers); err != nil {
			appLogger.Error("failed to start reconciler consumer", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			appLogger.Info("Stopping reconciler consumer...")
			if err := consumer.Stop(); err != nil {
				appLogger.Error("Error stopping reconciler consumer", slog.Any("error", err))
			}
		}()

		appLogger.Info("Reconciler consumer started",
			slog.String("group", cfg.Kafka.GroupID),
			slog.Int("workers", cfg.Kafka.Workers),
		)
	} else {
		appLogger.Info("Kafka disabled: booking changes reconciled in-process")
	}

	// Backfill sweep: re-emits confirmed bookings whose change message
	// never made it past the publisher.
	go appRouter.Backfill().Start(consumerCtx)
	appLogger.Info("Reconciler backfill sweep started",
		slog.Duration("interval", cfg.ReconcileBackfillInterval),
	)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
