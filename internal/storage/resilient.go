package storage

import (
	"context"
	"errors"
	"time"

	"github.com/openbrew/brewlog/internal/common"
	"github.com/openbrew/brewlog/internal/logging"
	"github.com/openbrew/brewlog/internal/models"
)

// Resilient prefers the structured store and falls back to the file
// store.
//
// SQLite initialization is attempted exactly once, in NewResilient; if it
// fails the session runs on the file store permanently (no retry storms).
// When SQLite initialized but an individual operation fails mid-session
// (storage revoked, disk error), only that operation is served from the
// file store; the structured backend stays selected.
type Resilient struct {
	structured Backend // nil when initialization failed
	fallback   Backend
	log        logging.Logger
}

// Options configures NewResilient. DSN is the SQLite database path, Dir the
// file-store directory.
type Options struct {
	DSN    string
	Dir    string
	Logger logging.Logger
}

// NewResilient builds the resilient store. It only returns an error when
// the fallback itself cannot be set up, since at that point there is
// nowhere left to degrade to.
func NewResilient(ctx context.Context, opts Options) (*Resilient, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	fallback, err := NewFileBackend(opts.Dir, log)
	if err != nil {
		return nil, err
	}

	r := &Resilient{fallback: fallback, log: log}

	structured, err := NewSQLite(ctx, opts.DSN)
	if err != nil {
		log.Warn(ctx, "structured storage unavailable, using file fallback", "error", err)
		return r, nil
	}
	r.structured = structured
	return r, nil
}

// Kind reports the currently selected backend.
func (r *Resilient) Kind() Kind {
	if r.structured != nil {
		return r.structured.Kind()
	}
	return r.fallback.Kind()
}

// do runs op against the structured backend when selected, degrading to
// the fallback on infrastructure errors. Corrupt-record errors are data
// problems, not store problems, and are returned as-is.
func do[T any](ctx context.Context, r *Resilient, name string, op func(Backend) (T, error)) (T, error) {
	if r.structured != nil {
		v, err := op(r.structured)
		if err == nil || errors.Is(err, common.ErrCorrupt) {
			return v, err
		}
		r.log.Warn(ctx, "structured backend operation failed, using fallback", "op", name, "error", err)
	}
	return op(r.fallback)
}

func (r *Resilient) SaveDraft(ctx context.Context, d *models.Draft) error {
	_, err := do(ctx, r, "save_draft", func(b Backend) (struct{}, error) {
		return struct{}{}, b.SaveDraft(ctx, d)
	})
	return err
}

func (r *Resilient) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	return do(ctx, r, "get_draft", func(b Backend) (*models.Draft, error) {
		return b.GetDraft(ctx, id)
	})
}

func (r *Resilient) GetAllDrafts(ctx context.Context) ([]models.Draft, error) {
	return do(ctx, r, "get_all_drafts", func(b Backend) ([]models.Draft, error) {
		return b.GetAllDrafts(ctx)
	})
}

func (r *Resilient) DeleteDraft(ctx context.Context, id string) error {
	_, err := do(ctx, r, "delete_draft", func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeleteDraft(ctx, id)
	})
	return err
}

func (r *Resilient) ClearDrafts(ctx context.Context) error {
	_, err := do(ctx, r, "clear_drafts", func(b Backend) (struct{}, error) {
		return struct{}{}, b.ClearDrafts(ctx)
	})
	return err
}

func (r *Resilient) LoadQueue(ctx context.Context) ([]string, error) {
	return do(ctx, r, "load_queue", func(b Backend) ([]string, error) {
		return b.LoadQueue(ctx)
	})
}

func (r *Resilient) StoreQueue(ctx context.Context, ids []string) error {
	_, err := do(ctx, r, "store_queue", func(b Backend) (struct{}, error) {
		return struct{}{}, b.StoreQueue(ctx, ids)
	})
	return err
}

func (r *Resilient) SaveConflict(ctx context.Context, c *models.ConflictRecord) error {
	_, err := do(ctx, r, "save_conflict", func(b Backend) (struct{}, error) {
		return struct{}{}, b.SaveConflict(ctx, c)
	})
	return err
}

func (r *Resilient) GetAllConflicts(ctx context.Context) ([]models.ConflictRecord, error) {
	return do(ctx, r, "get_all_conflicts", func(b Backend) ([]models.ConflictRecord, error) {
		return b.GetAllConflicts(ctx)
	})
}

func (r *Resilient) DeleteConflict(ctx context.Context, draftID string) error {
	_, err := do(ctx, r, "delete_conflict", func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeleteConflict(ctx, draftID)
	})
	return err
}

func (r *Resilient) LastSyncedAt(ctx context.Context) (time.Time, error) {
	return do(ctx, r, "last_synced_at", func(b Backend) (time.Time, error) {
		return b.LastSyncedAt(ctx)
	})
}

func (r *Resilient) SetLastSyncedAt(ctx context.Context, ts time.Time) error {
	_, err := do(ctx, r, "set_last_synced_at", func(b Backend) (struct{}, error) {
		return struct{}{}, b.SetLastSyncedAt(ctx, ts)
	})
	return err
}

func (r *Resilient) Close() error {
	if r.structured != nil {
		return r.structured.Close()
	}
	return r.fallback.Close()
}
