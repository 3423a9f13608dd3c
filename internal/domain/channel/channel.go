package channel

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/pkg/validation"
)

type Channel struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Membership struct {
	ChannelID   uuid.UUID `json:"channel_id"`
	PrincipalID uuid.UUID `json:"principal_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// MemberChannel is a channel seen through the caller's membership.
type MemberChannel struct {
	Channel *Channel
	Role    Role
}

type Input struct {
	Name        string `json:"name" validate:"min=2,max=60"`
	Slug        string `json:"slug" validate:"slug"`
	Description string `json:"description" validate:"omitempty,max=160"`
}

// NormalizeSlug is applied to every slug before lookup or storage.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func (in Input) Normalize() Input {
	return Input{
		Name:        strings.TrimSpace(in.Name),
		Slug:        NormalizeSlug(in.Slug),
		Description: strings.TrimSpace(in.Description),
	}
}

// Validate normalizes first, so " Acme " passes as "acme".
func (in Input) Validate() error {
	return validation.Struct(in.Normalize())
}

// NewChannel builds a public channel owned by ownerID from validated input.
func NewChannel(ownerID uuid.UUID, in Input, now time.Time) *Channel {
	in = in.Normalize()
	c := &Channel{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     in.Name,
		Slug:      in.Slug,
		IsPublic:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != "" {
		d := in.Description
		c.Description = &d
	}
	return c
}

type Repository interface {
	Save(ctx context.Context, c *Channel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindBySlug(ctx context.Context, slug string) (*Channel, error)
	FindPublicBySlug(ctx context.Context, slug string) (*Channel, error)
}

type MemberRepository interface {
	Save(ctx context.Context, m *Membership) error
	Find(ctx context.Context, channelID, principalID uuid.UUID) (*Membership, error)
	ListForPrincipal(ctx context.Context, principalID uuid.UUID) ([]MemberChannel, error)
}

// AtomicCreator is implemented by stores that can insert a channel and its
// owner membership in one transaction.
type AtomicCreator interface {
	CreateWithOwner(ctx context.Context, c *Channel, owner *Membership) error
}
