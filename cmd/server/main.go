package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/adapters/cache"
	"github.com/khoahotran/vidshelf/adapters/event"
	httpAdapter "github.com/khoahotran/vidshelf/adapters/http"
	"github.com/khoahotran/vidshelf/adapters/media_storage"
	"github.com/khoahotran/vidshelf/adapters/persistence"
	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	catalogUC "github.com/khoahotran/vidshelf/internal/application/usecase/catalog"
	channelUC "github.com/khoahotran/vidshelf/internal/application/usecase/channel"
	mediaUC "github.com/khoahotran/vidshelf/internal/application/usecase/media"
	videoUC "github.com/khoahotran/vidshelf/internal/application/usecase/video"
	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/auth"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	appLogger.Info("Start Vidshelf API Server...")

	ctx := context.Background()
	tp, err := tracing.NewTracerProvider(ctx, cfg, appLogger, "vidshelf-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer tracing.Shutdown(ctx, tp, appLogger)

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	channelRepo := persistence.NewPostgresChannelRepo(dbPool, appLogger)
	memberRepo := persistence.NewPostgresMemberRepo(dbPool, appLogger)
	videoRepo := persistence.NewPostgresVideoRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewUploader(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	catalogCache := cache.NewRedisCatalogCache(redisClient, cfg.Catalog.CacheTTL)

	// Use Cases
	resolver := access.NewResolver(channelRepo, memberRepo, appLogger)
	createChannelUseCase := channelUC.NewCreateChannelUseCase(channelRepo, memberRepo, kafkaClient, appLogger)
	myChannelsUseCase := channelUC.NewMyChannelsUseCase(memberRepo, resolver, appLogger)
	listVideosUseCase := videoUC.NewListChannelVideosUseCase(resolver, videoRepo, appLogger)
	createVideoUseCase := videoUC.NewCreateVideoUseCase(resolver, videoRepo, kafkaClient, appLogger)
	updateVideoUseCase := videoUC.NewUpdateVideoUseCase(resolver, videoRepo, catalogCache, kafkaClient, appLogger)
	setPublishedUseCase := videoUC.NewSetPublishedUseCase(resolver, videoRepo, catalogCache, kafkaClient, appLogger)
	uploadAssetUseCase := mediaUC.NewUploadAssetUseCase(resolver, uploader, appLogger)
	catalogUseCase := catalogUC.NewCatalogUseCase(channelRepo, videoRepo, catalogCache, appLogger)

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Channel: httpAdapter.NewChannelHandler(createChannelUseCase, myChannelsUseCase, appLogger),
		Video:   httpAdapter.NewVideoHandler(listVideosUseCase, createVideoUseCase, updateVideoUseCase, setPublishedUseCase, appLogger),
		Media:   httpAdapter.NewMediaHandler(uploadAssetUseCase, appLogger),
		Catalog: httpAdapter.NewCatalogHandler(catalogUseCase, appLogger),
		RSS:     httpAdapter.NewRSSHandler(catalogUseCase, appLogger),
	}, httpAdapter.Middlewares{
		Auth:      httpAdapter.AuthMiddleware(jwtSvc, appLogger),
		Error:     httpAdapter.ErrorMiddleware(appLogger),
		RateLimit: httpAdapter.RateLimitMiddleware(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, appLogger),
	})

	appLogger.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
