// Package storage implements the capability-abstracted on-device store for
// the brewlog offline engine.
//
// Two interchangeable backends share one contract: a structured SQLite
// store (preferred) and a plain file-per-key store (fallback). The
// Resilient proxy selects between them: SQLite initialization is attempted
// once per process, and every operation on the structured path degrades to
// the file store if SQLite fails mid-session.
package storage

import (
	"context"
	"time"

	"github.com/openbrew/brewlog/internal/models"
)

// Kind identifies which backend implementation is serving requests.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindFile   Kind = "file"
)

// Backend is the on-device persistence contract. Draft reads return
// (nil, nil) on a miss; a record that exists but cannot be decoded returns
// an error wrapping common.ErrCorrupt so callers can treat it as absent
// without masking infrastructure failures.
type Backend interface {
	Kind() Kind

	SaveDraft(ctx context.Context, d *models.Draft) error
	GetDraft(ctx context.Context, id string) (*models.Draft, error)
	GetAllDrafts(ctx context.Context) ([]models.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	ClearDrafts(ctx context.Context) error

	// LoadQueue and StoreQueue persist the pending-draft id list as a
	// whole. The list is ordered; StoreQueue replaces it atomically.
	LoadQueue(ctx context.Context) ([]string, error)
	StoreQueue(ctx context.Context, ids []string) error

	SaveConflict(ctx context.Context, c *models.ConflictRecord) error
	GetAllConflicts(ctx context.Context) ([]models.ConflictRecord, error)
	DeleteConflict(ctx context.Context, draftID string) error

	// LastSyncedAt returns the zero time when no sync has succeeded yet.
	LastSyncedAt(ctx context.Context) (time.Time, error)
	SetLastSyncedAt(ctx context.Context, ts time.Time) error

	Close() error
}
