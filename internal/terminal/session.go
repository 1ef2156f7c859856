package terminal

import (
	"context"
)

// Session binds a resolver to one visitor's display and preferences. The
// resolver and its registry are shared; a Session is not. Calls to Resolve on
// the same Session must not overlap.
type Session struct {
	ID       string
	resolver *Resolver
	env      *Env
}

// NewSession creates a session that resolves input against resolver and
// renders into env.
func NewSession(id string, resolver *Resolver, env *Env) *Session {
	return &Session{ID: id, resolver: resolver, env: env}
}

// Resolve handles one line of input typed into this session.
func (s *Session) Resolve(ctx context.Context, raw string) Outcome {
	return s.resolver.Resolve(ctx, s.env, raw)
}

// Env returns the session environment.
func (s *Session) Env() *Env {
	return s.env
}
