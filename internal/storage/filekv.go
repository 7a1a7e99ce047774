package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/openbrew/brewlog/internal/common"
	"github.com/openbrew/brewlog/internal/filex"
	"github.com/openbrew/brewlog/internal/logging"
	"github.com/openbrew/brewlog/internal/models"
)

const (
	draftKeyPrefix    = "brew_draft_"
	conflictKeyPrefix = "brew_conflict_"
	queueKey          = "brew_sync_queue"
)

// FileBackend is the fallback key-value store: one file per namespaced key
// under a data directory. It guarantees no ordering; callers sort. It has
// no initialization step that can fail beyond creating the directory,
// which is what makes it a safe fallback.
type FileBackend struct {
	dir string
	log logging.Logger
}

func NewFileBackend(dir string, log logging.Logger) (*FileBackend, error) {
	if log == nil {
		log = logging.Nop()
	}
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return &FileBackend{dir: abs, log: log}, nil
}

func (b *FileBackend) Kind() Kind { return KindFile }

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key)
}

// write stores value under key with a rename so readers never observe a
// partially written file.
func (b *FileBackend) write(key string, value []byte) error {
	tmp := b.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o660); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, b.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) SaveDraft(ctx context.Context, d *models.Draft) error {
	record, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return b.write(draftKeyPrefix+d.Id, record)
}

func (b *FileBackend) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	record, err := os.ReadFile(b.path(draftKeyPrefix + id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
	}

	d := &models.Draft{}
	if err := json.Unmarshal(record, d); err != nil {
		return nil, fmt.Errorf("draft %s: %w: %w", id, common.ErrCorrupt, err)
	}
	return d, nil
}

// GetAllDrafts enumerates every brew_draft_* key and decodes it.
// Undecodable entries are logged and skipped.
func (b *FileBackend) GetAllDrafts(ctx context.Context) ([]models.Draft, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", b.dir, err)
	}

	var result []models.Draft
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, draftKeyPrefix) || strings.HasSuffix(name, ".tmp") {
			continue
		}
		record, err := os.ReadFile(b.path(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var d models.Draft
		if err := json.Unmarshal(record, &d); err != nil {
			b.log.Warn(ctx, "skipping corrupt draft entry", "key", name, "error", err)
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (b *FileBackend) DeleteDraft(ctx context.Context, id string) error {
	err := os.Remove(b.path(draftKeyPrefix + id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

func (b *FileBackend) ClearDrafts(ctx context.Context) error {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", b.dir, err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), draftKeyPrefix) {
			if err := os.Remove(b.path(entry.Name())); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

func (b *FileBackend) LoadQueue(ctx context.Context) ([]string, error) {
	record, err := os.ReadFile(b.path(queueKey))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(record, &ids); err != nil {
		// A broken queue file must not brick the engine: start empty.
		b.log.Warn(ctx, "corrupt sync queue, resetting", "error", err)
		return nil, nil
	}
	return ids, nil
}

func (b *FileBackend) StoreQueue(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	record, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode queue: %w", err)
	}
	return b.write(queueKey, record)
}

func (b *FileBackend) SaveConflict(ctx context.Context, c *models.ConflictRecord) error {
	record, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode conflict: %w", err)
	}
	return b.write(conflictKeyPrefix+c.DraftID, record)
}

func (b *FileBackend) GetAllConflicts(ctx context.Context) ([]models.ConflictRecord, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", b.dir, err)
	}

	var result []models.ConflictRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, conflictKeyPrefix) || strings.HasSuffix(name, ".tmp") {
			continue
		}
		record, err := os.ReadFile(b.path(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var c models.ConflictRecord
		if err := json.Unmarshal(record, &c); err != nil {
			b.log.Warn(ctx, "skipping corrupt conflict entry", "key", name, "error", err)
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (b *FileBackend) DeleteConflict(ctx context.Context, draftID string) error {
	err := os.Remove(b.path(conflictKeyPrefix + draftID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete conflict %s: %w", draftID, err)
	}
	return nil
}

func (b *FileBackend) LastSyncedAt(ctx context.Context) (time.Time, error) {
	record, err := os.ReadFile(b.path(lastSyncKey))
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %w", lastSyncKey, err)
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(string(record)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %w", lastSyncKey, common.ErrCorrupt, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (b *FileBackend) SetLastSyncedAt(ctx context.Context, ts time.Time) error {
	return b.write(lastSyncKey, []byte(strconv.FormatInt(ts.UnixMilli(), 10)))
}

func (b *FileBackend) Close() error { return nil }
