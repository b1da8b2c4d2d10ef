package auth

import (
	"context"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

type contextKey string

const identityContextKey contextKey = "fortune_identity"

// Identity is the caller identity resolved for a request. Key is the
// quota/cache identity string ("key:{id}" for authenticated callers,
// "ip:{addr}" for anonymous ones).
type Identity struct {
	Key   string
	Tier  types.Tier
	KeyID string
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}
