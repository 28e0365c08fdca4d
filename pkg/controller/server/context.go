package server

import (
	"context"

	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

type ctxActorKey struct{}

func ctxWithActor(ctx context.Context, actor types.UserID) context.Context {
	return context.WithValue(ctx, ctxActorKey{}, actor)
}

// actorFrom returns the authenticated actor. It is empty outside of /api.
func actorFrom(ctx context.Context) types.UserID {
	if actor, ok := ctx.Value(ctxActorKey{}).(types.UserID); ok {
		return actor
	}
	return ""
}
