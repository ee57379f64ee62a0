package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher fans events out to subscribers. Handlers run in their
// own goroutine: publishers never wait on delivery and handler errors never
// reach the publisher. Wait exists so tests can observe completion.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	wg        sync.WaitGroup
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish schedules handlers for the given event and returns immediately.
func (d *inMemoryDispatcher) Publish(_ context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			// handler errors are the handler's problem to log
			_ = h(context.Background(), event)
		}()
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Wait blocks until all in-flight handlers finish.
func (d *inMemoryDispatcher) Wait() {
	d.wg.Wait()
}

// Waiter is implemented by dispatchers whose in-flight work can be awaited.
type Waiter interface {
	Wait()
}
