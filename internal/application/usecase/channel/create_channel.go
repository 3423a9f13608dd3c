package channel

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/principal"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/metrics"
)

var tracer = otel.Tracer("channel_usecase")

type CreateChannelUseCase struct {
	channelRepo channel.Repository
	memberRepo  channel.MemberRepository
	events      service.EventPublisher
	logger      logger.Logger
}

func NewCreateChannelUseCase(cRepo channel.Repository, mRepo channel.MemberRepository, events service.EventPublisher, log logger.Logger) *CreateChannelUseCase {
	return &CreateChannelUseCase{
		channelRepo: cRepo,
		memberRepo:  mRepo,
		events:      events,
		logger:      log,
	}
}

type CreateChannelInput struct {
	Channel channel.Input
}

type CreateChannelOutput struct {
	ChannelID string
	Slug      string
}

func (uc *CreateChannelUseCase) Execute(ctx context.Context, input CreateChannelInput) (*CreateChannelOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateChannel")
	defer span.End()

	p, err := principal.Require(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Channel.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := channel.NewChannel(p.ID, input.Channel, now)
	owner := &channel.Membership{
		ChannelID:   c.ID,
		PrincipalID: p.ID,
		Role:        channel.RoleOwner,
		CreatedAt:   now,
	}

	if atomic, ok := uc.channelRepo.(channel.AtomicCreator); ok {
		if err := atomic.CreateWithOwner(ctx, c, owner); err != nil {
			span.RecordError(err)
			return nil, saveError(err, c.Slug)
		}
	} else if err := uc.createWithCompensation(ctx, c, owner); err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.ChannelsCreated.Inc()
	uc.logger.Info("Channel created", zap.String("channel_id", c.ID.String()), zap.String("slug", c.Slug))

	if uc.events != nil {
		err := uc.events.PublishCatalogEvent(ctx, service.CatalogEvent{
			EventType:   service.EventChannelCreated,
			ChannelID:   c.ID,
			ChannelSlug: c.Slug,
			ActorID:     p.ID,
		})
		if err != nil {
			uc.logger.Error("Failed to publish catalog event", err, zap.String("channel_id", c.ID.String()))
		}
	}

	return &CreateChannelOutput{ChannelID: c.ID.String(), Slug: c.Slug}, nil
}

// createWithCompensation inserts the channel, then the owner membership. If
// the second insert fails the channel row is deleted again.
func (uc *CreateChannelUseCase) createWithCompensation(ctx context.Context, c *channel.Channel, owner *channel.Membership) error {
	if err := uc.channelRepo.Save(ctx, c); err != nil {
		return saveError(err, c.Slug)
	}

	if err := uc.memberRepo.Save(ctx, owner); err != nil {
		if delErr := uc.channelRepo.Delete(ctx, c.ID); delErr != nil {
			uc.logger.Error("Failed to roll back channel after owner insert failed", delErr,
				zap.String("channel_id", c.ID.String()))
		}
		return apperror.NewInternal("could not add channel owner", err)
	}
	return nil
}

func saveError(err error, slug string) error {
	if errors.Is(err, apperror.ErrConflict) {
		return apperror.NewConflict("channel", "slug", slug)
	}
	return apperror.NewInternal("could not create channel", err)
}
