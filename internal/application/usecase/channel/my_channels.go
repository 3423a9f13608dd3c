package channel

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/internal/domain/principal"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type MyChannelsUseCase struct {
	memberRepo channel.MemberRepository
	resolver   *access.Resolver
	logger     logger.Logger
}

func NewMyChannelsUseCase(mRepo channel.MemberRepository, resolver *access.Resolver, log logger.Logger) *MyChannelsUseCase {
	return &MyChannelsUseCase{memberRepo: mRepo, resolver: resolver, logger: log}
}

// ListMine returns every channel the caller belongs to with their role. It
// degrades to an empty list on failure.
func (uc *MyChannelsUseCase) ListMine(ctx context.Context) []channel.MemberChannel {
	p, err := principal.Require(ctx)
	if err != nil {
		return []channel.MemberChannel{}
	}

	rows, err := uc.memberRepo.ListForPrincipal(ctx, p.ID)
	if err != nil {
		uc.logger.Error("Failed to list channels for principal", err, zap.String("principal_id", p.ID.String()))
		return []channel.MemberChannel{}
	}

	out := make([]channel.MemberChannel, 0, len(rows))
	for _, r := range rows {
		if r.Channel == nil || !r.Role.Valid() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MyRole returns the caller's role on the channel, or nil when the caller
// cannot see it.
func (uc *MyChannelsUseCase) MyRole(ctx context.Context, slug string) *channel.Role {
	acc, err := uc.resolver.Resolve(ctx, slug, access.AnyMember())
	if err != nil {
		return nil
	}
	role := acc.Role
	return &role
}
