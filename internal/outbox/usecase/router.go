package usecase

import (
	"context"

	apperrors "github.com/allisson/assetvault/internal/errors"
	"github.com/allisson/assetvault/internal/outbox/domain"
)

// Handler handles one event type.
type Handler interface {
	Handle(ctx context.Context, event *domain.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *domain.Event) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event *domain.Event) error {
	return f(ctx, event)
}

// Router is an EventProcessor dispatching on the event type.
type Router struct {
	handlers map[string]Handler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds handler to eventType, replacing any previous binding.
func (r *Router) Register(eventType string, handler Handler) {
	r.handlers[eventType] = handler
}

// Process dispatches event. Unregistered types fail with ErrUnknownEventType.
func (r *Router) Process(ctx context.Context, event *domain.Event) error {
	handler, ok := r.handlers[event.EventType]
	if !ok {
		return apperrors.Wrapf(domain.ErrUnknownEventType, "event type %q", event.EventType)
	}
	return handler.Handle(ctx, event)
}
