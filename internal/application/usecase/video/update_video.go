package video

import (
	"context"
	"errors"
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

type UpdateVideoUseCase struct {
	resolver  *access.Resolver
	videoRepo video.Repository
	cache     service.CatalogCache
	events    service.EventPublisher
	logger    logger.Logger
}

func NewUpdateVideoUseCase(resolver *access.Resolver, vRepo video.Repository, cache service.CatalogCache, events service.EventPublisher, log logger.Logger) *UpdateVideoUseCase {
	return &UpdateVideoUseCase{
		resolver:  resolver,
		videoRepo: vRepo,
		cache:     cache,
		events:    events,
		logger:    log,
	}
}

type UpdateVideoInput struct {
	Slug    string
	VideoID uuid.UUID
	Video   video.Input
}

type UpdateVideoOutput struct {
	Video *video.Video
}

func (uc *UpdateVideoUseCase) Execute(ctx context.Context, input UpdateVideoInput) (*UpdateVideoOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateVideo")
	defer span.End()

	if err := input.Video.Validate(); err != nil {
		return nil, err
	}

	acc, err := uc.resolver.Resolve(ctx, input.Slug, access.Managers)
	if err != nil {
		return nil, err
	}

	existing, err := findInChannel(ctx, uc.videoRepo, input.VideoID, acc.Channel.ID)
	if err != nil {
		return nil, err
	}

	existing.Apply(input.Video.Normalize(), time.Now().UTC())
	if err := uc.videoRepo.Update(ctx, existing); err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("video", input.VideoID.String())
		}
		return nil, apperror.NewInternal("could not update video", err)
	}

	invalidateCatalog(ctx, uc.cache, uc.logger, acc.Channel.ID, acc.Channel.Slug)

	metrics.VideoTransitions.WithLabelValues("update").Inc()
	uc.logger.Info("Video updated", zap.String("video_id", existing.ID.String()))

	publishEvent(ctx, uc.events, uc.logger, service.CatalogEvent{
		EventType:   service.EventVideoUpdated,
		ChannelID:   acc.Channel.ID,
		ChannelSlug: acc.Channel.Slug,
		VideoID:     existing.ID,
		ActorID:     acc.PrincipalID,
	})

	return &UpdateVideoOutput{Video: existing}, nil
}

// findInChannel scopes the lookup to channelID so an id from another
// channel is indistinguishable from a missing one.
func findInChannel(ctx context.Context, repo video.Repository, id, channelID uuid.UUID) (*video.Video, error) {
	v, err := repo.FindInChannel(ctx, id, channelID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("video", id.String())
		}
		return nil, apperror.NewInternal("failed to load video", err)
	}
	return v, nil
}
