package common

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// Request is any command or query value. Handlers are keyed by its dynamic type.
type Request interface{}

// Response is whatever a handler returns for its request
type Response interface{}

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc is the shape of the next step in a middleware chain
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware runs around every Send. It decides whether to call next.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Mediator routes outfitting commands and queries to exactly one handler each
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	RegisterMiddleware(middleware Middleware)
}

type mediator struct {
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

func NewMediator() Mediator {
	return &mediator{handlers: map[reflect.Type]RequestHandler{}}
}

// Register binds handler to requestType. A type can only be bound once.
func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	switch {
	case requestType == nil:
		return errors.New("request type cannot be nil")
	case handler == nil:
		return fmt.Errorf("handler for %s cannot be nil", requestType)
	}
	if _, taken := m.handlers[requestType]; taken {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

// RegisterMiddleware appends a middleware. The first registered runs outermost.
func (m *mediator) RegisterMiddleware(middleware Middleware) {
	m.middlewares = append(m.middlewares, middleware)
}

func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}
	handler, ok := m.handlers[reflect.TypeOf(request)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for type %T", request)
	}
	return m.chain(handler.Handle)(ctx, request)
}

// chain wraps h in the registered middlewares, innermost last
func (m *mediator) chain(h HandlerFunc) HandlerFunc {
	for i := len(m.middlewares) - 1; i >= 0; i-- {
		mw, next := m.middlewares[i], h
		h = func(ctx context.Context, request Request) (Response, error) {
			return mw(ctx, request, next)
		}
	}
	return h
}

// RegisterHandler binds handler to T, the pointer type callers pass to Send
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	return m.Register(reflect.TypeOf((*T)(nil)).Elem(), handler)
}
