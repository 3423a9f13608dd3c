package video

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/metrics"
)

type SetPublishedUseCase struct {
	resolver  *access.Resolver
	videoRepo video.Repository
	cache     service.CatalogCache
	events    service.EventPublisher
	logger    logger.Logger
}

func NewSetPublishedUseCase(resolver *access.Resolver, vRepo video.Repository, cache service.CatalogCache, events service.EventPublisher, log logger.Logger) *SetPublishedUseCase {
	return &SetPublishedUseCase{
		resolver:  resolver,
		videoRepo: vRepo,
		cache:     cache,
		events:    events,
		logger:    log,
	}
}

type SetPublishedInput struct {
	Slug        string
	VideoID     uuid.UUID
	IsPublished bool
}

type SetPublishedOutput struct {
	Video   *video.Video
	Changed bool
}

func (uc *SetPublishedUseCase) Execute(ctx context.Context, input SetPublishedInput) (*SetPublishedOutput, error) {
	ctx, span := tracer.Start(ctx, "SetPublished")
	defer span.End()

	acc, err := uc.resolver.Resolve(ctx, input.Slug, access.Managers)
	if err != nil {
		return nil, err
	}

	v, err := findInChannel(ctx, uc.videoRepo, input.VideoID, acc.Channel.ID)
	if err != nil {
		return nil, err
	}

	if !v.SetPublished(input.IsPublished, time.Now().UTC()) {
		return &SetPublishedOutput{Video: v, Changed: false}, nil
	}

	changed, err := uc.videoRepo.UpdatePublication(ctx, v)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("could not update publish status", err)
	}
	if !changed {
		// A concurrent request reached the same state first; report what it
		// stored.
		current, err := findInChannel(ctx, uc.videoRepo, input.VideoID, acc.Channel.ID)
		if err != nil {
			return nil, err
		}
		return &SetPublishedOutput{Video: current, Changed: false}, nil
	}

	invalidateCatalog(ctx, uc.cache, uc.logger, acc.Channel.ID, acc.Channel.Slug)

	eventType := service.EventVideoUnpublished
	if v.IsPublished {
		eventType = service.EventVideoPublished
	}
	metrics.VideoTransitions.WithLabelValues(string(eventType)).Inc()
	uc.logger.Info("Video publication changed",
		zap.String("video_id", v.ID.String()),
		zap.Bool("is_published", v.IsPublished))

	publishEvent(ctx, uc.events, uc.logger, service.CatalogEvent{
		EventType:   eventType,
		ChannelID:   acc.Channel.ID,
		ChannelSlug: acc.Channel.Slug,
		VideoID:     v.ID,
		ActorID:     acc.PrincipalID,
	})

	return &SetPublishedOutput{Video: v, Changed: true}, nil
}
