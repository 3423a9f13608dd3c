package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"
)

const feedLimit = 20

// Feed builds an RSS feed of a public channel's published videos. baseURL is
// the storefront origin, e.g. "https://vidshelf.example".
func (uc *CatalogUseCase) Feed(ctx context.Context, slug, baseURL string) (*feeds.Feed, error) {
	out, err := uc.Storefront(ctx, slug)
	if err != nil {
		return nil, err
	}
	c := out.Channel
	base := strings.TrimRight(baseURL, "/")

	feed := &feeds.Feed{
		Title:   c.Title,
		Link:    &feeds.Link{Href: fmt.Sprintf("%s/%s", base, c.Slug)},
		Created: time.Now().UTC(),
	}
	if c.Description != nil {
		feed.Description = *c.Description
	}

	for i, v := range out.Videos {
		if i == feedLimit {
			break
		}
		item := &feeds.Item{
			Id:      v.ID.String(),
			Title:   v.Title,
			Link:    &feeds.Link{Href: fmt.Sprintf("%s/%s/videos/%s", base, c.Slug, v.ID)},
			Created: v.CreatedAt,
		}
		if v.PublishedAt != nil {
			item.Created = *v.PublishedAt
		}
		if v.Description != nil {
			item.Description = *v.Description
		}
		feed.Items = append(feed.Items, item)
	}

	uc.logger.Info("RSS feed generated", zap.String("slug", c.Slug), zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
