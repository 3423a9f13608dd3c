package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
)

// CatalogCache holds public catalog reads. Get methods report a miss with
// found=false; errors are treated as misses by callers.
//
// Published video lists are stamped with the channel's generation.
// GetPublishedVideos returns the generation it looked under, and the caller
// passes it back to SetPublishedVideos after loading from the store. A list
// loaded before InvalidateChannel bumped the generation is written under the
// old one and never read again.
type CatalogCache interface {
	GetChannel(ctx context.Context, slug string) (c *channel.Channel, found bool, err error)
	SetChannel(ctx context.Context, slug string, c *channel.Channel) error
	GetPublishedVideos(ctx context.Context, channelID uuid.UUID) (vs []*video.Video, gen int64, found bool, err error)
	SetPublishedVideos(ctx context.Context, channelID uuid.UUID, gen int64, vs []*video.Video) error
	InvalidateChannel(ctx context.Context, channelID uuid.UUID, slug string) error
}
