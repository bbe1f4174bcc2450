// Package bus is a small in-process publish/subscribe bus.
//
// The event store publishes a notification for every confirmed mutation;
// the CLI and the metrics layer subscribe without the store knowing about
// either.
package bus

import (
	"log"
	"sync"
)

// Handler processes one published message.
type Handler[T any] func(msg T) error

// Bus delivers messages to every subscriber synchronously, in subscription
// order.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers []Handler[T]
	closed   bool
}

// New creates an open bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers handler for all later publishes.
func (b *Bus[T]) Subscribe(handler Handler[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish calls each handler with msg. Every handler runs even if an earlier
// one fails; the first error is returned.
func (b *Bus[T]) Publish(msg T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	var first error
	for _, handler := range b.handlers {
		if err := handler(msg); err != nil {
			log.Printf("[bus] handler error: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Close stops delivery. Publishing on a closed bus is a no-op.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
