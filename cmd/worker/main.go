package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/adapters/cache"
	"github.com/khoahotran/vidshelf/adapters/event"
	"github.com/khoahotran/vidshelf/adapters/persistence"
	catalogUC "github.com/khoahotran/vidshelf/internal/application/usecase/catalog"
	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	appLogger.Info("Starting Vidshelf Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(ctx, cfg, appLogger, "vidshelf-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer tracing.Shutdown(context.Background(), tp, appLogger)

	// Redis
	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Worker Use Case
	invalidateUC := catalogUC.NewInvalidateCatalogUseCase(
		cache.NewRedisCatalogCache(redisClient, cfg.Catalog.CacheTTL),
		appLogger,
	)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicCatalogEvents,
		GroupID:  "catalog-cache-group",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicCatalogEvents))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		e, err := event.DecodeCatalogEvent(msg)
		if err != nil {
			appLogger.Error("Skipping malformed catalog event", err, zap.String("key", string(msg.Key)))
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		if err := invalidateUC.Execute(ctx, e); err != nil {
			appLogger.Error("Failed to invalidate catalog", err, zap.String("channel_id", e.ChannelID.String()))
			continue
		}

		commitMessage(ctx, consumer, msg, appLogger)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
