// Package conflicts implements the persisted conflict store. Records are
// filed by the sync orchestrator when a delivery failure classifies as a
// conflict and are removed only by an explicit caller resolution.
package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/openbrew/brewlog/internal/models"
	"github.com/openbrew/brewlog/internal/storage"
)

type Store struct {
	backend storage.Backend
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// File records a conflict for the given draft, stamping the discovery time
// if the caller did not. Filing twice for the same draft replaces the
// earlier record.
func (s *Store) File(ctx context.Context, c *models.ConflictRecord) error {
	if c.DetectedAt.IsZero() {
		c.DetectedAt = time.Now().UTC()
	}
	if err := s.backend.SaveConflict(ctx, c); err != nil {
		return fmt.Errorf("failed to file conflict for %s: %w", c.DraftID, err)
	}
	return nil
}

// All returns every unresolved conflict.
func (s *Store) All(ctx context.Context) ([]models.ConflictRecord, error) {
	return s.backend.GetAllConflicts(ctx)
}

// Resolve removes the conflict record for draftID. How the caller resolved
// it (keep local, keep remote, merge) is a UI concern; the store only
// forgets the disagreement.
func (s *Store) Resolve(ctx context.Context, draftID string) error {
	if err := s.backend.DeleteConflict(ctx, draftID); err != nil {
		return fmt.Errorf("failed to resolve conflict for %s: %w", draftID, err)
	}
	return nil
}

// Count returns the number of unresolved conflicts.
func (s *Store) Count(ctx context.Context) (int, error) {
	all, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}
