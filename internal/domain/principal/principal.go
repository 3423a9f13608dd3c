// Package principal carries the authenticated caller. Identities are issued
// by the external identity provider; this service only consumes them.
package principal

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/pkg/apperror"
)

type Principal struct {
	ID uuid.UUID `json:"id"`
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Current returns the principal attached to ctx, if any.
func Current(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.ID == uuid.Nil {
		return Principal{}, false
	}
	return p, true
}

// Require fails with an unauthorized error when no principal is present.
func Require(ctx context.Context) (Principal, error) {
	p, ok := Current(ctx)
	if !ok {
		return Principal{}, apperror.NewUnauthorized("no authenticated principal in request", nil)
	}
	return p, nil
}
