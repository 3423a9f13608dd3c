package video

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/metrics"
)

var tracer = otel.Tracer("video_usecase")

type CreateVideoUseCase struct {
	resolver  *access.Resolver
	videoRepo video.Repository
	events    service.EventPublisher
	logger    logger.Logger
}

func NewCreateVideoUseCase(resolver *access.Resolver, vRepo video.Repository, events service.EventPublisher, log logger.Logger) *CreateVideoUseCase {
	return &CreateVideoUseCase{
		resolver:  resolver,
		videoRepo: vRepo,
		events:    events,
		logger:    log,
	}
}

type CreateVideoInput struct {
	Slug  string
	Video video.Input
}

type CreateVideoOutput struct {
	Video *video.Video
}

func (uc *CreateVideoUseCase) Execute(ctx context.Context, input CreateVideoInput) (*CreateVideoOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateVideo")
	defer span.End()

	if err := input.Video.Validate(); err != nil {
		return nil, err
	}

	acc, err := uc.resolver.Resolve(ctx, input.Slug, access.Managers)
	if err != nil {
		return nil, err
	}

	v := video.NewDraft(acc.Channel.ID, acc.PrincipalID, input.Video.Normalize(), time.Now().UTC())
	if err := uc.videoRepo.Save(ctx, v); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("could not create video", err)
	}

	metrics.VideoTransitions.WithLabelValues("create").Inc()
	uc.logger.Info("Video created",
		zap.String("video_id", v.ID.String()),
		zap.String("channel_id", acc.Channel.ID.String()),
		zap.String("created_by", acc.PrincipalID.String()))

	publishEvent(ctx, uc.events, uc.logger, service.CatalogEvent{
		EventType:   service.EventVideoCreated,
		ChannelID:   acc.Channel.ID,
		ChannelSlug: acc.Channel.Slug,
		VideoID:     v.ID,
		ActorID:     acc.PrincipalID,
	})

	return &CreateVideoOutput{Video: v}, nil
}
