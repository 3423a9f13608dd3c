package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
)

const maxRelated = 3

type StorefrontOutput struct {
	Channel *channel.Channel
	Videos  []*video.Video
}

// Storefront is the public landing page of a channel.
func (uc *CatalogUseCase) Storefront(ctx context.Context, slug string) (*StorefrontOutput, error) {
	c, err := uc.GetPublicChannelBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFound("channel", channel.NormalizeSlug(slug))
	}
	return &StorefrontOutput{Channel: c, Videos: lockAll(uc.ListPublishedVideos(ctx, c.ID))}, nil
}

type StorefrontVideoOutput struct {
	Channel *channel.Channel
	Video   *video.Video
	Related []*video.Video
	// Locked is set for premium videos; FullURL is withheld until payment
	// exists.
	Locked bool
	Price  string
}

// StorefrontVideo resolves a published video through its public channel.
// A video id that belongs to another channel is reported as not found.
func (uc *CatalogUseCase) StorefrontVideo(ctx context.Context, slug string, videoID uuid.UUID) (*StorefrontVideoOutput, error) {
	c, err := uc.GetPublicChannelBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFound("channel", channel.NormalizeSlug(slug))
	}

	v, err := uc.GetPublishedVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.ChannelID != c.ID {
		return nil, apperror.NewNotFound("video", videoID.String())
	}

	related := make([]*video.Video, 0, maxRelated)
	for _, other := range uc.ListPublishedVideos(ctx, c.ID) {
		if other.ID == v.ID {
			continue
		}
		related = append(related, lockPremium(other))
		if len(related) == maxRelated {
			break
		}
	}

	out := &StorefrontVideoOutput{Channel: c, Video: lockPremium(v), Related: related}
	if v.IsPremium {
		out.Locked = true
		out.Price = v.Price()
	}
	return out, nil
}

// lockPremium returns a copy of a premium video without FullURL. Free videos
// are returned as is. The argument is never modified, so cached or stored
// records keep their URL.
func lockPremium(v *video.Video) *video.Video {
	if v == nil || !v.IsPremium {
		return v
	}
	locked := *v
	locked.FullURL = nil
	return &locked
}

func lockAll(vs []*video.Video) []*video.Video {
	out := make([]*video.Video, 0, len(vs))
	for _, v := range vs {
		out = append(out, lockPremium(v))
	}
	return out
}
