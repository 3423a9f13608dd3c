package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
)

func newCache(t *testing.T) (*miniredis.Miniredis, *redisCatalogCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCatalogCache(client, time.Minute).(*redisCatalogCache)
}

func TestCatalogCache_ChannelRoundTrip(t *testing.T) {
	_, c := newCache(t)
	ctx := context.Background()

	_, found, err := c.GetChannel(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, found)

	ch := &channel.Channel{ID: uuid.New(), Title: "Acme", Slug: "acme", IsPublic: true}
	require.NoError(t, c.SetChannel(ctx, "acme", ch))

	got, found, err := c.GetChannel(ctx, "acme")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ch.ID, got.ID)
	assert.True(t, got.IsPublic)
}

func TestCatalogCache_VideosExpireAndInvalidate(t *testing.T) {
	mr, c := newCache(t)
	ctx := context.Background()
	channelID := uuid.New()

	require.NoError(t, c.SetChannel(ctx, "acme", &channel.Channel{ID: channelID, Slug: "acme"}))
	_, gen, found, err := c.GetPublishedVideos(ctx, channelID)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.SetPublishedVideos(ctx, channelID, gen, []*video.Video{{ID: uuid.New(), IsPublished: true}}))

	vs, _, found, err := c.GetPublishedVideos(ctx, channelID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, vs, 1)

	require.NoError(t, c.InvalidateChannel(ctx, channelID, "acme"))
	_, _, found, _ = c.GetPublishedVideos(ctx, channelID)
	assert.False(t, found)
	_, found, _ = c.GetChannel(ctx, "acme")
	assert.False(t, found)

	_, gen, _, _ = c.GetPublishedVideos(ctx, channelID)
	require.NoError(t, c.SetPublishedVideos(ctx, channelID, gen, []*video.Video{}))
	mr.FastForward(2 * time.Minute)
	_, _, found, _ = c.GetPublishedVideos(ctx, channelID)
	assert.False(t, found, "entries expire after the ttl")
}

func TestCatalogCache_ListLoadedBeforeInvalidateIsNeverServed(t *testing.T) {
	_, c := newCache(t)
	ctx := context.Background()
	channelID := uuid.New()

	// A reader misses and goes to the store.
	_, gen, found, err := c.GetPublishedVideos(ctx, channelID)
	require.NoError(t, err)
	require.False(t, found)

	// Meanwhile a writer unpublishes and invalidates.
	require.NoError(t, c.InvalidateChannel(ctx, channelID, ""))

	// The reader writes back what it loaded before the change.
	stale := []*video.Video{{ID: uuid.New(), IsPublished: true}}
	require.NoError(t, c.SetPublishedVideos(ctx, channelID, gen, stale))

	_, newGen, found, err := c.GetPublishedVideos(ctx, channelID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, gen+1, newGen)
}

func TestCatalogCache_CorruptEntry(t *testing.T) {
	mr, c := newCache(t)
	require.NoError(t, mr.Set(channelKey("acme"), "{not json"))

	_, found, err := c.GetChannel(context.Background(), "acme")
	assert.Error(t, err)
	assert.False(t, found)
}
