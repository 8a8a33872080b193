package engine

import (
	"fmt"

	"algodash/internal/session"
	"algodash/internal/store"
	"algodash/internal/wire"
)

// EventHandler applies one event kind to the session.
// Each implementation handles exactly one kind.
type EventHandler interface {
	// Type returns the event kind this handler processes.
	Type() wire.Kind

	// Handle applies the event and reports what the stores did with it.
	Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error)
}

// HandlerContext gives handlers access to the session owned by the engine loop.
type HandlerContext struct {
	session *session.Session
}

func NewHandlerContext(s *session.Session) *HandlerContext {
	return &HandlerContext{session: s}
}

func (c *HandlerContext) Session() *session.Session {
	return c.session
}

func payloadAs[T wire.Payload](evt wire.Event) (T, error) {
	p, ok := evt.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("event %s carries %T", evt.Kind, evt.Payload)
	}
	return p, nil
}
