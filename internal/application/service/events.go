package service

import (
	"context"

	"github.com/google/uuid"
)

type EventType string

const (
	EventChannelCreated   EventType = "channel.created"
	EventVideoCreated     EventType = "video.created"
	EventVideoUpdated     EventType = "video.updated"
	EventVideoPublished   EventType = "video.published"
	EventVideoUnpublished EventType = "video.unpublished"
)

// CatalogEvent tells downstream consumers which public views went stale.
type CatalogEvent struct {
	EventType   EventType `json:"event_type"`
	ChannelID   uuid.UUID `json:"channel_id"`
	ChannelSlug string    `json:"channel_slug"`
	VideoID     uuid.UUID `json:"video_id,omitempty"`
	ActorID     uuid.UUID `json:"actor_id"`
}

type EventPublisher interface {
	PublishCatalogEvent(ctx context.Context, e CatalogEvent) error
}
