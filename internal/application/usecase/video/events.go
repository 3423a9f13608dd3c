package video

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

// publishEvent is best effort: the write already succeeded and the catalog
// cache was invalidated in line.
func publishEvent(ctx context.Context, events service.EventPublisher, log logger.Logger, e service.CatalogEvent) {
	if events == nil {
		return
	}
	if err := events.PublishCatalogEvent(ctx, e); err != nil {
		log.Error("Failed to publish catalog event", err,
			zap.String("event_type", string(e.EventType)),
			zap.String("video_id", e.VideoID.String()))
	}
}

// invalidateCatalog drops the channel's public catalog entries before the
// write is reported back, so a public read that starts afterwards goes to
// the store. The worker repeats this when it sees the event.
func invalidateCatalog(ctx context.Context, cache service.CatalogCache, log logger.Logger, channelID uuid.UUID, slug string) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateChannel(ctx, channelID, slug); err != nil {
		log.Error("Failed to invalidate catalog cache", err,
			zap.String("channel_id", channelID.String()))
	}
}
