package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"checkout-service/checkout"
	"checkout-service/config"
	"checkout-service/events"
	"checkout-service/handlers"
	"checkout-service/logging"
	"checkout-service/monitoring"
	"checkout-service/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	if err := logging.InitLogger(cfg.ServiceName, cfg.OTELEndpoint); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logging.Sync()
	defer func() {
		if err := logging.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry
	tp, tracer, err := monitoring.InitTracer(cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		logging.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, _, err := monitoring.InitMeter(cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		logging.Fatal("Failed to initialize meter", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Session store
	var sessions store.SessionStore = store.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logging.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.RedisAddr))
		}
		sessions = store.NewRedisStore(redisClient, cfg.SessionTTL)
		logging.Info("Using Redis session store", zap.String("addr", cfg.RedisAddr))
	} else {
		logging.Warn("REDIS_ADDR not set, sessions are kept in memory")
	}

	// Event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logging.Info("Publishing checkout events to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}
	defer publisher.Close()

	// Initialize service layer
	checkoutService := checkout.NewService(
		checkout.Config{
			Recipient:     config.StorefrontRecipient,
			TokenDecimals: int32(cfg.TokenDecimals),
		},
		cfg.OnePay(),
		sessions,
		publisher,
		tracer,
	)
	defer checkoutService.Shutdown()

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	r := handlers.NewRouter(cfg.ServiceName, checkoutHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logging.Info("Checkout service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", zap.Error(err))
	}

	logging.Info("Server exited")
}
