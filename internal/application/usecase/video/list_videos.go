package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type ListChannelVideosUseCase struct {
	resolver  *access.Resolver
	videoRepo video.Repository
	logger    logger.Logger
}

func NewListChannelVideosUseCase(resolver *access.Resolver, vRepo video.Repository, log logger.Logger) *ListChannelVideosUseCase {
	return &ListChannelVideosUseCase{
		resolver:  resolver,
		videoRepo: vRepo,
		logger:    log,
	}
}

type ListChannelVideosInput struct {
	Slug string
}

type ListChannelVideosOutput struct {
	Videos []*video.Video
}

// Execute lists every video of the channel, drafts included, newest first.
// Any member may call it. Failures of any kind yield an empty list; callers
// that need the reason go through access.Resolver themselves.
func (uc *ListChannelVideosUseCase) Execute(ctx context.Context, input ListChannelVideosInput) *ListChannelVideosOutput {
	empty := &ListChannelVideosOutput{Videos: []*video.Video{}}

	acc, err := uc.resolver.Resolve(ctx, input.Slug, access.AnyMember())
	if err != nil {
		uc.logger.Warn("Channel video list denied", zap.String("slug", input.Slug), zap.Error(err))
		return empty
	}

	videos, err := uc.videoRepo.ListByChannel(ctx, acc.Channel.ID)
	if err != nil {
		uc.logger.Error("Failed to list channel videos", err, zap.String("channel_id", acc.Channel.ID.String()))
		return empty
	}

	return &ListChannelVideosOutput{Videos: videos}
}
