// Package memstore is an in-memory implementation of the repositories, used
// by use case tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
)

type memberKey struct {
	channelID   uuid.UUID
	principalID uuid.UUID
}

type Store struct {
	mu       sync.Mutex
	channels map[uuid.UUID]channel.Channel
	members  map[memberKey]channel.Membership
	videos   map[uuid.UUID]video.Video
	seq      map[uuid.UUID]int64

	// Calls counts every repository method invocation.
	Calls atomic.Int64

	// FailMemberSave makes the next membership insert fail with this error.
	FailMemberSave error
	// Fail makes every call fail with this error when set.
	Fail error
}

func New() *Store {
	return &Store{
		channels: make(map[uuid.UUID]channel.Channel),
		members:  make(map[memberKey]channel.Membership),
		videos:   make(map[uuid.UUID]video.Video),
		seq:      make(map[uuid.UUID]int64),
	}
}

func (s *Store) Channels() *ChannelRepo { return &ChannelRepo{s} }
func (s *Store) Members() *MemberRepo   { return &MemberRepo{s} }
func (s *Store) Videos() *VideoRepo     { return &VideoRepo{s} }

func (s *Store) enter() error {
	s.Calls.Add(1)
	s.mu.Lock()
	return s.Fail
}

// AddChannel seeds a channel and, if role is set, a membership for member.
func (s *Store) AddChannel(c channel.Channel, member uuid.UUID, role channel.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[c.ID] = c
	if role != "" {
		s.members[memberKey{c.ID, member}] = channel.Membership{ChannelID: c.ID, PrincipalID: member, Role: role}
	}
}

func (s *Store) AddMember(channelID, member uuid.UUID, role channel.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[memberKey{channelID, member}] = channel.Membership{ChannelID: channelID, PrincipalID: member, Role: role}
}

// Video returns a copy of the stored video.
func (s *Store) Video(id uuid.UUID) (video.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	return v, ok
}

func (s *Store) ChannelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.channels)
}

func (s *Store) MemberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

type ChannelRepo struct{ s *Store }

func (r *ChannelRepo) Save(ctx context.Context, c *channel.Channel) error {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	for _, existing := range r.s.channels {
		if existing.Slug == c.Slug {
			return apperror.NewConflict("channel", "slug", c.Slug)
		}
	}
	r.s.channels[c.ID] = *c
	return nil
}

func (r *ChannelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.channels[id]; !ok {
		return apperror.NewNotFound("channel", id.String())
	}
	delete(r.s.channels, id)
	return nil
}

func (r *ChannelRepo) FindBySlug(ctx context.Context, slug string) (*channel.Channel, error) {
	return r.find(slug, false)
}

func (r *ChannelRepo) FindPublicBySlug(ctx context.Context, slug string) (*channel.Channel, error) {
	return r.find(slug, true)
}

func (r *ChannelRepo) find(slug string, publicOnly bool) (*channel.Channel, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, c := range r.s.channels {
		if c.Slug == slug && (!publicOnly || c.IsPublic) {
			found := c
			return &found, nil
		}
	}
	return nil, apperror.NewNotFound("channel", slug)
}

type MemberRepo struct{ s *Store }

func (r *MemberRepo) Save(ctx context.Context, m *channel.Membership) error {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if r.s.FailMemberSave != nil {
		err := r.s.FailMemberSave
		r.s.FailMemberSave = nil
		return err
	}
	r.s.members[memberKey{m.ChannelID, m.PrincipalID}] = *m
	return nil
}

func (r *MemberRepo) Find(ctx context.Context, channelID, principalID uuid.UUID) (*channel.Membership, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	m, ok := r.s.members[memberKey{channelID, principalID}]
	if !ok {
		return nil, apperror.NewNotFound("membership", channelID.String())
	}
	return &m, nil
}

func (r *MemberRepo) ListForPrincipal(ctx context.Context, principalID uuid.UUID) ([]channel.MemberChannel, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]channel.MemberChannel, 0)
	for k, m := range r.s.members {
		if k.principalID != principalID {
			continue
		}
		c, ok := r.s.channels[k.channelID]
		if !ok {
			continue
		}
		out = append(out, channel.MemberChannel{Channel: &c, Role: m.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel.Slug < out[j].Channel.Slug })
	return out, nil
}

type VideoRepo struct{ s *Store }

func (r *VideoRepo) Save(ctx context.Context, v *video.Video) error {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	r.s.videos[v.ID] = *v
	r.s.seq[v.ID] = int64(len(r.s.seq))
	return nil
}

func (r *VideoRepo) Update(ctx context.Context, v *video.Video) error {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.videos[v.ID]
	if !ok || existing.ChannelID != v.ChannelID {
		return apperror.NewNotFound("video", v.ID.String())
	}
	v.IsPublished = existing.IsPublished
	v.PublishedAt = existing.PublishedAt
	r.s.videos[v.ID] = *v
	return nil
}

func (r *VideoRepo) UpdatePublication(ctx context.Context, v *video.Video) (bool, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.videos[v.ID]
	if !ok || existing.ChannelID != v.ChannelID || existing.IsPublished == v.IsPublished {
		return false, nil
	}
	existing.IsPublished = v.IsPublished
	existing.PublishedAt = v.PublishedAt
	existing.UpdatedAt = v.UpdatedAt
	r.s.videos[v.ID] = existing
	return true, nil
}

func (r *VideoRepo) FindInChannel(ctx context.Context, id, channelID uuid.UUID) (*video.Video, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok || v.ChannelID != channelID {
		return nil, apperror.NewNotFound("video", id.String())
	}
	return &v, nil
}

func (r *VideoRepo) ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*video.Video, error) {
	return r.list(func(v video.Video) bool { return v.ChannelID == channelID })
}

func (r *VideoRepo) ListPublishedByChannel(ctx context.Context, channelID uuid.UUID) ([]*video.Video, error) {
	return r.list(func(v video.Video) bool { return v.ChannelID == channelID && v.IsPublished })
}

func (r *VideoRepo) FindPublishedByID(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok || !v.IsPublished {
		return nil, apperror.NewNotFound("video", id.String())
	}
	return &v, nil
}

// list orders newest first; insertion order breaks created_at ties.
func (r *VideoRepo) list(keep func(video.Video) bool) ([]*video.Video, error) {
	if err := r.s.enter(); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]*video.Video, 0)
	for _, v := range r.s.videos {
		if keep(v) {
			found := v
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.s.seq[out[i].ID] > r.s.seq[out[j].ID]
	})
	return out, nil
}
