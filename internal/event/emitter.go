// Package event provides callback registration for host lifecycle signals.
package event

import (
	"sync"

	"github.com/tessro/botshell/internal/logging"
)

// Emitter delivers events to registered callbacks. Callbacks return nothing
// and are fire-and-forget: a panicking callback is logged and does not stop
// delivery to the others.
type Emitter[E any] struct {
	mu sync.RWMutex
	// +checklocks:mu
	handlers map[uint64]func(E)
	// +checklocks:mu
	order []uint64
	// +checklocks:mu
	nextID uint64
}

// OnEvent registers handler and returns a function that removes it.
// Handlers are called synchronously, in registration order, by Emit.
func (e *Emitter[E]) OnEvent(handler func(E)) (remove func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[uint64]func(E))
	}
	id := e.nextID
	e.nextID++
	e.handlers[id] = handler
	e.order = append(e.order, id)

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.handlers[id]; !ok {
			return
		}
		delete(e.handlers, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}

// Emit sends an event to the handlers registered when Emit was called.
// Must not be called with the lock held; handlers may register or remove
// handlers.
func (e *Emitter[E]) Emit(event E) {
	e.mu.RLock()
	handlers := make([]func(E), 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		call(h, event)
	}
}

// Len returns the number of registered handlers.
func (e *Emitter[E]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

func call[E any](h func(E), event E) {
	defer logging.LogPanic("event-handler", nil)
	h(event)
}
