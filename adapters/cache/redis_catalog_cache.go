package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
)

const prefix = "vidshelf:catalog:"

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) service.CatalogCache {
	return &redisCatalogCache{client: client, ttl: ttl}
}

func channelKey(slug string) string {
	return prefix + "channel:" + slug
}

func generationKey(channelID uuid.UUID) string {
	return prefix + "generation:" + channelID.String()
}

func videosKey(channelID uuid.UUID, gen int64) string {
	return fmt.Sprintf("%svideos:%s:%d", prefix, channelID, gen)
}

// generation has no ttl; a missing key is generation 0.
func (r *redisCatalogCache) generation(ctx context.Context, channelID uuid.UUID) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(channelID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get catalog generation for channel %s: %w", channelID, err)
	}
	return gen, nil
}

func (r *redisCatalogCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *redisCatalogCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in Redis: %w", key, err)
	}
	return nil
}

func (r *redisCatalogCache) GetChannel(ctx context.Context, slug string) (*channel.Channel, bool, error) {
	var c channel.Channel
	found, err := r.get(ctx, channelKey(slug), &c)
	if !found || err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

func (r *redisCatalogCache) SetChannel(ctx context.Context, slug string, c *channel.Channel) error {
	return r.set(ctx, channelKey(slug), c)
}

func (r *redisCatalogCache) GetPublishedVideos(ctx context.Context, channelID uuid.UUID) ([]*video.Video, int64, bool, error) {
	gen, err := r.generation(ctx, channelID)
	if err != nil {
		return nil, 0, false, err
	}
	var vs []*video.Video
	found, err := r.get(ctx, videosKey(channelID, gen), &vs)
	if !found || err != nil {
		return nil, gen, false, err
	}
	if vs == nil {
		vs = []*video.Video{}
	}
	return vs, gen, true, nil
}

func (r *redisCatalogCache) SetPublishedVideos(ctx context.Context, channelID uuid.UUID, gen int64, vs []*video.Video) error {
	return r.set(ctx, videosKey(channelID, gen), vs)
}

// InvalidateChannel bumps the channel's generation, then drops the list
// stored under the previous one and the cached channel row.
func (r *redisCatalogCache) InvalidateChannel(ctx context.Context, channelID uuid.UUID, slug string) error {
	gen, err := r.client.Incr(ctx, generationKey(channelID)).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog for channel %s: %w", channelID, err)
	}
	keys := []string{videosKey(channelID, gen-1)}
	if slug != "" {
		keys = append(keys, channelKey(slug))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog for channel %s: %w", channelID, err)
	}
	return nil
}
