package handlers

import (
	"context"

	"github.com/nbaliev/campushub/internal/models"
)

// Identity is the authenticated principal attached to a request context by
// the auth middleware.
type Identity struct {
	UserID string
	Role   models.Role
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the authenticated identity from the context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
