// Package queue implements the persisted sync queue: the ordered set of
// draft ids awaiting delivery.
//
// The queue is bookkeeping separate from the drafts themselves. Removing
// an id after a successful sync leaves the draft record in place, which is
// what distinguishes "exists" from "needs sending".
package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/openbrew/brewlog/internal/storage"
)

// Queue is a mutex-guarded read-modify-write view over the backend's
// persisted id list. Insertion order is preserved; Enqueue is idempotent.
type Queue struct {
	mu      sync.Mutex
	backend storage.Backend
}

func New(backend storage.Backend) *Queue {
	return &Queue{backend: backend}
}

// Enqueue appends id to the queue. Ids already present are left where
// they are, so re-saving a draft never produces duplicate entries or
// reorders it.
func (q *Queue) Enqueue(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ids, err := q.backend.LoadQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return q.backend.StoreQueue(ctx, append(ids, id))
}

// Remove deletes id from the queue, keeping the relative order of the rest.
func (q *Queue) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ids, err := q.backend.LoadQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}
	filtered := slices.DeleteFunc(ids, func(v string) bool { return v == id })
	if len(filtered) == len(ids) {
		return nil
	}
	return q.backend.StoreQueue(ctx, filtered)
}

// All returns the queued ids in insertion order.
func (q *Queue) All(ctx context.Context) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.backend.LoadQueue(ctx)
}

// Len returns the number of pending ids.
func (q *Queue) Len(ctx context.Context) (int, error) {
	ids, err := q.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Clear empties the queue.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.backend.StoreQueue(ctx, nil)
}
