package video

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/pkg/validation"
)

const DefaultCurrency = "usd"

type Video struct {
	ID           uuid.UUID  `json:"id"`
	ChannelID    uuid.UUID  `json:"channel_id"`
	CreatedBy    uuid.UUID  `json:"created_by"`
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

type Input struct {
	Title        string `json:"title" validate:"min=2,max=80"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	PreviewURL   string `json:"preview_url" validate:"omitempty,url"`
	FullURL      string `json:"full_url" validate:"omitempty,url"`
	IsPremium    bool   `json:"is_premium"`
	PriceCents   int64  `json:"price_cents" validate:"gte=0"`
	Currency     string `json:"currency" validate:"min=3,max=8"`
}

func (in Input) trimmed() Input {
	out := Input{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		PreviewURL:   strings.TrimSpace(in.PreviewURL),
		FullURL:      strings.TrimSpace(in.FullURL),
		IsPremium:    in.IsPremium,
		PriceCents:   in.PriceCents,
		Currency:     strings.TrimSpace(in.Currency),
	}
	if out.Currency == "" {
		out.Currency = DefaultCurrency
	}
	return out
}

// Validate checks the trimmed input and reports every failing field.
func (in Input) Validate() error {
	return validation.Struct(in.trimmed())
}

// Fields are the normalized, storable form of an Input.
type Fields struct {
	Title        string
	Description  *string
	ThumbnailURL *string
	PreviewURL   *string
	FullURL      *string
	IsPremium    bool
	PriceCents   int64
	Currency     string
}

// Normalize trims strings, turns empty optionals into nil, zeroes the price
// of free videos and lowercases the currency.
func (in Input) Normalize() Fields {
	t := in.trimmed()
	f := Fields{
		Title:        t.Title,
		Description:  nullable(t.Description),
		ThumbnailURL: nullable(t.ThumbnailURL),
		PreviewURL:   nullable(t.PreviewURL),
		FullURL:      nullable(t.FullURL),
		IsPremium:    t.IsPremium,
		Currency:     strings.ToLower(t.Currency),
	}
	if t.IsPremium {
		f.PriceCents = t.PriceCents
	}
	return f
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewDraft creates an unpublished video. Publication state is never taken
// from input.
func NewDraft(channelID, createdBy uuid.UUID, f Fields, now time.Time) *Video {
	v := &Video{
		ID:        uuid.New(),
		ChannelID: channelID,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	v.Apply(f, now)
	return v
}

// Apply overwrites the editable fields and leaves publication state alone.
func (v *Video) Apply(f Fields, now time.Time) {
	v.Title = f.Title
	v.Description = f.Description
	v.ThumbnailURL = f.ThumbnailURL
	v.PreviewURL = f.PreviewURL
	v.FullURL = f.FullURL
	v.IsPremium = f.IsPremium
	v.PriceCents = f.PriceCents
	v.Currency = f.Currency
	v.UpdatedAt = now
}

// SetPublished moves between draft and published. It returns false when the
// video is already in the requested state, in which case nothing changes.
func (v *Video) SetPublished(published bool, now time.Time) bool {
	if v.IsPublished == published {
		return false
	}
	v.IsPublished = published
	if published {
		t := now
		v.PublishedAt = &t
	} else {
		v.PublishedAt = nil
	}
	v.UpdatedAt = now
	return true
}

type Repository interface {
	Save(ctx context.Context, v *Video) error
	Update(ctx context.Context, v *Video) error
	// UpdatePublication stores v's publication state only if the stored row
	// is in the other state. changed is false when the row already matched,
	// including when a concurrent call got there first.
	UpdatePublication(ctx context.Context, v *Video) (changed bool, err error)
	FindInChannel(ctx context.Context, id, channelID uuid.UUID) (*Video, error)
	ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*Video, error)
	ListPublishedByChannel(ctx context.Context, channelID uuid.UUID) ([]*Video, error)
	FindPublishedByID(ctx context.Context, id uuid.UUID) (*Video, error)
}
