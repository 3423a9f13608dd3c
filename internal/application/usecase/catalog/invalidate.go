package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

// InvalidateCatalogUseCase drops the cached public views of the channel an
// event refers to. It runs in the worker.
type InvalidateCatalogUseCase struct {
	cache  service.CatalogCache
	logger logger.Logger
}

func NewInvalidateCatalogUseCase(cache service.CatalogCache, log logger.Logger) *InvalidateCatalogUseCase {
	return &InvalidateCatalogUseCase{cache: cache, logger: log}
}

func (uc *InvalidateCatalogUseCase) Execute(ctx context.Context, e service.CatalogEvent) error {
	if err := uc.cache.InvalidateChannel(ctx, e.ChannelID, e.ChannelSlug); err != nil {
		return err
	}
	uc.logger.Debug("Catalog cache invalidated",
		zap.String("event_type", string(e.EventType)),
		zap.String("channel_id", e.ChannelID.String()))
	return nil
}
