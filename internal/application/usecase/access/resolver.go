package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/principal"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
	"github.com/khoahotran/vidshelf/pkg/metrics"
)

var tracer = otel.Tracer("access_resolver")

// Requirement restricts which membership roles pass a check. The zero value
// admits any member.
type Requirement struct {
	roles []channel.Role
}

func AnyMember() Requirement {
	return Requirement{}
}

func RolesIn(roles ...channel.Role) Requirement {
	return Requirement{roles: roles}
}

// Managers is the allow-list for every mutating video operation.
var Managers = RolesIn(channel.RoleOwner, channel.RoleAdmin)

func (r Requirement) allows(role channel.Role) bool {
	if !role.Valid() {
		return false
	}
	if len(r.roles) == 0 {
		return true
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

type Access struct {
	Channel     *channel.Channel
	Role        channel.Role
	PrincipalID uuid.UUID
}

type Resolver struct {
	channelRepo channel.Repository
	memberRepo  channel.MemberRepository
	logger      logger.Logger
}

func NewResolver(cRepo channel.Repository, mRepo channel.MemberRepository, log logger.Logger) *Resolver {
	return &Resolver{
		channelRepo: cRepo,
		memberRepo:  mRepo,
		logger:      log,
	}
}

// Resolve loads the channel behind slug and the caller's membership on it.
// A missing channel is not_found; a missing membership or a role outside
// req is forbidden.
func (r *Resolver) Resolve(ctx context.Context, slug string, req Requirement) (*Access, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	p, err := principal.Require(ctx)
	if err != nil {
		metrics.AccessDenied.WithLabelValues("anonymous").Inc()
		return nil, err
	}

	normalized := channel.NormalizeSlug(slug)
	span.SetAttributes(attribute.String("channel.slug", normalized))

	c, err := r.channelRepo.FindBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			metrics.AccessDenied.WithLabelValues("channel_not_found").Inc()
			return nil, apperror.NewNotFound("channel", normalized)
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to load channel", err)
	}

	m, err := r.memberRepo.Find(ctx, c.ID, p.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			metrics.AccessDenied.WithLabelValues("not_member").Inc()
			r.logger.Debug("Principal is not a channel member",
				zap.String("channel_id", c.ID.String()), zap.String("principal_id", p.ID.String()))
			return nil, apperror.NewPermissionDenied("you do not have access to this channel")
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to load membership", err)
	}

	if !req.allows(m.Role) {
		metrics.AccessDenied.WithLabelValues("role").Inc()
		return nil, apperror.NewPermissionDenied("you do not have permission to perform this action")
	}

	span.SetAttributes(attribute.String("channel.role", string(m.Role)))
	return &Access{Channel: c, Role: m.Role, PrincipalID: p.ID}, nil
}
