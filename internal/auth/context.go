// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithSession/FromContext for propagating session info via context

package auth

import (
	"context"

	"github.com/kruxfin/support-gateway/internal/identity"
)

// Session holds the authenticated identity extracted from a request.
// Populated by the HTTP middleware and retrieved from context in handlers.
// Name comes from the token and is the only place a transient identity's
// display name survives between requests.
type Session struct {
	UserID string
	Name   string
	Role   identity.Role
}

// IsAgent returns true if the session belongs to a support agent.
func (s *Session) IsAgent() bool {
	return s.Role == identity.RoleAgent
}

// sessionContextKey is the key type for storing Session in context.Context.
type sessionContextKey struct{}

// WithSession returns a new context with the Session attached.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// FromContext retrieves the Session from the context, returning nil if not present.
func FromContext(ctx context.Context) *Session {
	val := ctx.Value(sessionContextKey{})
	if val == nil {
		return nil
	}
	s, ok := val.(*Session)
	if !ok {
		return nil
	}
	return s
}
