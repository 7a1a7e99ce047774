package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/openbrew/brewlog/internal/common"
	"github.com/openbrew/brewlog/internal/dbx"
	"github.com/openbrew/brewlog/internal/models"
	"github.com/openbrew/brewlog/internal/storage/migrations"
)

const lastSyncKey = "last_sync_timestamp"

// SQLiteBackend is the structured store. Drafts are kept as JSON blobs with
// indexed columns for the owning barista and the creation time.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dsn and applies embedded
// migrations. Initialization failures are returned to the caller; the
// Resilient proxy downgrades them to a fallback, never the backend itself.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (b *SQLiteBackend) Kind() Kind { return KindSQLite }

// SaveDraft upserts a draft by id. Saving an existing id is a full replace.
func (b *SQLiteBackend) SaveDraft(ctx context.Context, d *models.Draft) error {
	record, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	query := `INSERT INTO drafts (id, barista_id, record, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET barista_id = excluded.barista_id,
			record = excluded.record,
			created_at = excluded.created_at,
			modified_at = excluded.modified_at
	`
	_, err = b.db.ExecContext(ctx, query,
		d.Id, d.Payload.BaristaID, record, d.CreatedAt.UnixMilli(), d.ModifiedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	var record []byte
	err := b.db.QueryRowContext(ctx, `SELECT record FROM drafts WHERE id = ?`, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select draft: %w", err)
	}

	d := &models.Draft{}
	if err := json.Unmarshal(record, d); err != nil {
		return nil, fmt.Errorf("draft %s: %w: %w", id, common.ErrCorrupt, err)
	}
	return d, nil
}

// GetAllDrafts returns every stored draft in creation-time order (newest
// first, backed by the created_at index). Undecodable rows are skipped.
func (b *SQLiteBackend) GetAllDrafts(ctx context.Context) ([]models.Draft, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id, record FROM drafts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []models.Draft
	for rows.Next() {
		var id string
		var record []byte
		if err := rows.Scan(&id, &record); err != nil {
			return nil, err
		}
		var d models.Draft
		if err := json.Unmarshal(record, &d); err != nil {
			continue
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *SQLiteBackend) DeleteDraft(ctx context.Context, id string) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) ClearDrafts(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM drafts`)
	if err != nil {
		return fmt.Errorf("failed to clear drafts: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) LoadQueue(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT draft_id FROM sync_queue ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// StoreQueue replaces the persisted queue with ids, preserving order.
func (b *SQLiteBackend) StoreQueue(ctx context.Context, ids []string) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
			return fmt.Errorf("failed to clear queue: %w", err)
		}
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `INSERT INTO sync_queue (draft_id) VALUES (?)`, id); err != nil {
				return fmt.Errorf("failed to enqueue %s: %w", id, err)
			}
		}
		return nil
	})
}

func (b *SQLiteBackend) SaveConflict(ctx context.Context, c *models.ConflictRecord) error {
	record, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode conflict: %w", err)
	}

	query := `INSERT INTO conflicts (draft_id, record, detected_at) VALUES (?, ?, ?)
		ON CONFLICT(draft_id) DO UPDATE SET record = excluded.record, detected_at = excluded.detected_at`
	if _, err := b.db.ExecContext(ctx, query, c.DraftID, record, c.DetectedAt.UnixMilli()); err != nil {
		return fmt.Errorf("failed to upsert conflict: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) GetAllConflicts(ctx context.Context) ([]models.ConflictRecord, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT record FROM conflicts ORDER BY detected_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select conflicts: %w", err)
	}
	defer rows.Close()

	var result []models.ConflictRecord
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var c models.ConflictRecord
		if err := json.Unmarshal(record, &c); err != nil {
			continue
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *SQLiteBackend) DeleteConflict(ctx context.Context, draftID string) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM conflicts WHERE draft_id = ?`, draftID)
	if err != nil {
		return fmt.Errorf("failed to delete conflict: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, lastSyncKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get metadata[%s]: %w", lastSyncKey, err)
	}

	ms, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("metadata[%s]: %w: %w", lastSyncKey, common.ErrCorrupt, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (b *SQLiteBackend) SetLastSyncedAt(ctx context.Context, ts time.Time) error {
	value := []byte(strconv.FormatInt(ts.UnixMilli(), 10))
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastSyncKey, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", lastSyncKey, err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }
