// Package drafts owns the lifecycle of locally persisted brew drafts:
// id assignment, timestamping, retrieval order and queue membership.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbrew/brewlog/internal/common"
	"github.com/openbrew/brewlog/internal/logging"
	"github.com/openbrew/brewlog/internal/models"
	"github.com/openbrew/brewlog/internal/queue"
	"github.com/openbrew/brewlog/internal/storage"
)

// Store persists drafts through the storage backend and keeps the sync
// queue in step with them. It is the only component that writes draft
// records.
type Store struct {
	backend storage.Backend
	queue   *queue.Queue
	log     logging.Logger
	now     func() time.Time
}

func NewStore(backend storage.Backend, q *queue.Queue, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{backend: backend, queue: q, log: log, now: time.Now}
}

// newDraftID builds a locally unique id without a central allocator:
// a millisecond prefix plus a random suffix.
func newDraftID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("draft_%d_%s", now.UnixMilli(), suffix)
}

// Save persists d and enqueues it for delivery, returning the final id.
// A missing id is generated and CreatedAt stamped; ModifiedAt is always
// stamped. Saving an existing id is a full replace.
func (s *Store) Save(ctx context.Context, d *models.Draft) (string, error) {
	now := s.now().UTC()

	if d.Id == "" {
		d.Id = newDraftID(now)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.ModifiedAt = now

	if err := s.backend.SaveDraft(ctx, d); err != nil {
		return "", fmt.Errorf("failed to save draft: %w", err)
	}
	if err := s.queue.Enqueue(ctx, d.Id); err != nil {
		return "", fmt.Errorf("failed to enqueue draft: %w", err)
	}

	s.log.Debug(ctx, "draft saved", "draft_id", d.Id)
	return d.Id, nil
}

// Get returns the draft with the given id, or nil when it does not exist.
// A stored record that cannot be decoded is treated as absent, never as an
// error.
func (s *Store) Get(ctx context.Context, id string) (*models.Draft, error) {
	d, err := s.backend.GetDraft(ctx, id)
	if errors.Is(err, common.ErrCorrupt) {
		s.log.Warn(ctx, "treating corrupt draft as absent", "draft_id", id, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

// GetAll returns every draft, newest CreatedAt first. Equal timestamps are
// ordered by id so the result is deterministic.
func (s *Store) GetAll(ctx context.Context) ([]models.Draft, error) {
	all, err := s.backend.GetAllDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Id < all[j].Id
	})
	return all, nil
}

// Delete removes the draft from the backend and from the sync queue,
// reporting whether a draft existed. Deletion is a caller decision; the
// sync path never deletes drafts.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	if err := s.backend.DeleteDraft(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete draft: %w", err)
	}
	if err := s.queue.Remove(ctx, id); err != nil {
		return false, fmt.Errorf("failed to dequeue draft: %w", err)
	}
	return existing != nil, nil
}

// ClearAll wipes every draft and the sync queue. Used for full resets
// only.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.backend.ClearDrafts(ctx); err != nil {
		return fmt.Errorf("failed to clear drafts: %w", err)
	}
	if err := s.queue.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

// ToSync resolves the queued ids to draft records in queue order. Ids that
// no longer resolve (deleted or corrupt) are skipped silently; the queue
// is the source of truth for pending status, not existence.
func (s *Store) ToSync(ctx context.Context) ([]models.Draft, error) {
	ids, err := s.queue.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	result := make([]models.Draft, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d == nil {
			s.log.Warn(ctx, "queued draft not resolvable, skipping", "draft_id", id)
			continue
		}
		result = append(result, *d)
	}
	return result, nil
}

// PendingIDs returns the queued draft ids in delivery order.
func (s *Store) PendingIDs(ctx context.Context) ([]string, error) {
	return s.queue.All(ctx)
}

// LastSyncedAt reports when a delivery last succeeded, zero if never.
func (s *Store) LastSyncedAt(ctx context.Context) (time.Time, error) {
	return s.backend.LastSyncedAt(ctx)
}

// BackendKind reports which storage implementation is active.
func (s *Store) BackendKind() storage.Kind {
	return s.backend.Kind()
}

// MarkSynced records a successful delivery: the id leaves the queue and
// the last-sync timestamp advances. The draft record itself is retained
// for reference.
func (s *Store) MarkSynced(ctx context.Context, id string) error {
	if err := s.queue.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to dequeue synced draft: %w", err)
	}
	if err := s.backend.SetLastSyncedAt(ctx, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to record sync timestamp: %w", err)
	}
	return nil
}
