package session

import (
	"context"

	"github.com/google/uuid"
)

type idContextKey struct{}

// WithID returns a context carrying the session id for the current
// request. The transport layer calls this once per request, typically
// with an id read from (or minted into) a session cookie.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idContextKey{}, id)
}

// ID extracts the session id from ctx. The second return is false when no
// id was attached or the attached id is empty.
func ID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(idContextKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// NewID mints a fresh session id. Transport layers should issue a new one
// whenever a visitor arrives without a usable id.
func NewID() string {
	return uuid.NewString()
}
