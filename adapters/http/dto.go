package http

import (
	"time"

	"github.com/khoahotran/vidshelf/internal/application/usecase/catalog"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
)

// Channel DTOs

type ChannelDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToChannelDTO(c *channel.Channel) ChannelDTO {
	return ChannelDTO{
		ID:          c.ID.String(),
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		IsPublic:    c.IsPublic,
		CreatedAt:   c.CreatedAt,
	}
}

type MemberChannelDTO struct {
	ChannelDTO
	Role string `json:"role"`
}

type RoleResponse struct {
	Role *string `json:"role"`
}

// Video DTOs

type VideoDTO struct {
	ID           string     `json:"id"`
	ChannelID    string     `json:"channel_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	PreviewURL   *string    `json:"preview_url"`
	FullURL      *string    `json:"full_url"`
	IsPremium    bool       `json:"is_premium"`
	PriceCents   int64      `json:"price_cents"`
	Currency     string     `json:"currency"`
	IsPublished  bool       `json:"is_published"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToVideoDTO(v *video.Video) VideoDTO {
	return VideoDTO{
		ID:           v.ID.String(),
		ChannelID:    v.ChannelID.String(),
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
		PreviewURL:   v.PreviewURL,
		FullURL:      v.FullURL,
		IsPremium:    v.IsPremium,
		PriceCents:   v.PriceCents,
		Currency:     v.Currency,
		IsPublished:  v.IsPublished,
		PublishedAt:  v.PublishedAt,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func ToVideoDTOs(vs []*video.Video) []VideoDTO {
	dtos := make([]VideoDTO, len(vs))
	for i, v := range vs {
		dtos[i] = ToVideoDTO(v)
	}
	return dtos
}

type PublishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

// Storefront DTOs

type StorefrontDTO struct {
	Channel ChannelDTO `json:"channel"`
	Videos  []VideoDTO `json:"videos"`
}

type StorefrontVideoDTO struct {
	Channel ChannelDTO `json:"channel"`
	Video   VideoDTO   `json:"video"`
	Related []VideoDTO `json:"related"`
	Locked  bool       `json:"locked"`
	Price   string     `json:"price,omitempty"`
}

func ToStorefrontVideoDTO(out *catalog.StorefrontVideoOutput) StorefrontVideoDTO {
	return StorefrontVideoDTO{
		Channel: ToChannelDTO(out.Channel),
		Video:   ToVideoDTO(out.Video),
		Related: ToVideoDTOs(out.Related),
		Locked:  out.Locked,
		Price:   out.Price,
	}
}
