package syncer

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/openbrew/brewlog/internal/logging"
)

// Status names the phases reported to subscribers.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// StatusEvent carries the counts for one phase of a sync run.
type StatusEvent struct {
	Status    Status
	Pending   int
	Synced    int
	Failed    int
	Conflicts int
	Error     string
}

// registry holds status listeners keyed by registration id. Each listener
// invocation is isolated: a panicking subscriber neither stops the others
// nor aborts the sync run.
type registry struct {
	mu        sync.Mutex
	listeners map[string]func(StatusEvent)
	log       logging.Logger
}

func newRegistry(log logging.Logger) *registry {
	return &registry{listeners: make(map[string]func(StatusEvent)), log: log}
}

// add registers fn and returns a disposer bound to this registration, not
// to any shared index.
func (r *registry) add(fn func(StatusEvent)) func() {
	id := uuid.NewString()

	r.mu.Lock()
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *registry) notify(ctx context.Context, ev StatusEvent) {
	r.mu.Lock()
	fns := make([]func(StatusEvent), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if p := recover(); p != nil {
					r.log.Warn(ctx, "sync status listener panicked", "panic", p)
				}
			}()
			fn(ev)
		}()
	}
}
