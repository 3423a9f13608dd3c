package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/metrics"
)

// CatalogUseCase is the unauthenticated read side. It only ever returns
// public channels and published videos.
type CatalogUseCase struct {
	channelRepo channel.Repository
	videoRepo   video.Repository
	cache       service.CatalogCache
	logger      logger.Logger
}

// NewCatalogUseCase accepts a nil cache.
func NewCatalogUseCase(cRepo channel.Repository, vRepo video.Repository, cache service.CatalogCache, log logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		channelRepo: cRepo,
		videoRepo:   vRepo,
		cache:       cache,
		logger:      log,
	}
}

// GetPublicChannelBySlug returns nil when no public channel has this slug.
func (uc *CatalogUseCase) GetPublicChannelBySlug(ctx context.Context, slug string) (*channel.Channel, error) {
	normalized := channel.NormalizeSlug(slug)
	if normalized == "" {
		return nil, nil
	}

	if uc.cache != nil {
		c, found, err := uc.cache.GetChannel(ctx, normalized)
		if err != nil {
			uc.logger.Warn("Catalog cache read failed", zap.String("slug", normalized), zap.Error(err))
		} else if found && c.IsPublic {
			metrics.CatalogCache.WithLabelValues("hit").Inc()
			return c, nil
		}
		metrics.CatalogCache.WithLabelValues("miss").Inc()
	}

	c, err := uc.channelRepo.FindPublicBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.NewInternal("failed to load public channel", err)
	}
	if !c.IsPublic {
		return nil, nil
	}

	if uc.cache != nil {
		if err := uc.cache.SetChannel(ctx, normalized, c); err != nil {
			uc.logger.Warn("Catalog cache write failed", zap.String("slug", normalized), zap.Error(err))
		}
	}
	return c, nil
}

// ListPublishedVideos returns published videos newest first, or an empty
// list when the store fails.
func (uc *CatalogUseCase) ListPublishedVideos(ctx context.Context, channelID uuid.UUID) []*video.Video {
	var gen int64
	cacheable := false
	if uc.cache != nil {
		vs, g, found, err := uc.cache.GetPublishedVideos(ctx, channelID)
		if err != nil {
			uc.logger.Warn("Catalog cache read failed", zap.String("channel_id", channelID.String()), zap.Error(err))
		} else if found {
			metrics.CatalogCache.WithLabelValues("hit").Inc()
			return onlyPublished(vs)
		} else {
			gen, cacheable = g, true
		}
		metrics.CatalogCache.WithLabelValues("miss").Inc()
	}

	vs, err := uc.videoRepo.ListPublishedByChannel(ctx, channelID)
	if err != nil {
		uc.logger.Error("Failed to list published videos", err, zap.String("channel_id", channelID.String()))
		return []*video.Video{}
	}
	vs = onlyPublished(vs)

	if cacheable {
		if err := uc.cache.SetPublishedVideos(ctx, channelID, gen, vs); err != nil {
			uc.logger.Warn("Catalog cache write failed", zap.String("channel_id", channelID.String()), zap.Error(err))
		}
	}
	return vs
}

// GetPublishedVideoByID returns nil unless the video is published. It does
// not check the channel; callers compare ChannelID themselves.
func (uc *CatalogUseCase) GetPublishedVideoByID(ctx context.Context, videoID uuid.UUID) (*video.Video, error) {
	v, err := uc.videoRepo.FindPublishedByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.NewInternal("failed to load published video", err)
	}
	if !v.IsPublished {
		return nil, nil
	}
	return v, nil
}

func onlyPublished(vs []*video.Video) []*video.Video {
	out := make([]*video.Video, 0, len(vs))
	for _, v := range vs {
		if v != nil && v.IsPublished {
			out = append(out, v)
		}
	}
	return out
}
