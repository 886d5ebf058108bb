package session

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
)

// ContextKey is a private type for session values stored in a context.
type ContextKey string

// SessionCtxKey holds the domain.Session placed by the JWT middleware.
const SessionCtxKey = ContextKey("session")

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, SessionCtxKey, s)
}

// FromContext returns the session stored in ctx, or an inactive one.
func FromContext(ctx context.Context) domain.Session {
	s, ok := ctx.Value(SessionCtxKey).(domain.Session)
	if !ok || s.OwnerID == "" {
		return domain.Session{}
	}
	return s
}

// ContextProvider reads the session of the request being served. The session cannot
// change while a request runs, so Submit reads it once at start.
type ContextProvider struct{}

func (ContextProvider) Snapshot(ctx context.Context) domain.Session {
	return FromContext(ctx)
}
