package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrew/brewlog/internal/logging"
	"github.com/openbrew/brewlog/internal/models"
)

var errDown = errors.New("database is locked")

// downBackend simulates a structured store that initialized fine but
// fails mid-session.
type downBackend struct{}

func (downBackend) Kind() Kind { return KindSQLite }
func (downBackend) SaveDraft(context.Context, *models.Draft) error {
	return errDown
}
func (downBackend) GetDraft(context.Context, string) (*models.Draft, error) {
	return nil, errDown
}
func (downBackend) GetAllDrafts(context.Context) ([]models.Draft, error) {
	return nil, errDown
}
func (downBackend) DeleteDraft(context.Context, string) error { return errDown }
func (downBackend) ClearDrafts(context.Context) error         { return errDown }
func (downBackend) LoadQueue(context.Context) ([]string, error) {
	return nil, errDown
}
func (downBackend) StoreQueue(context.Context, []string) error { return errDown }
func (downBackend) SaveConflict(context.Context, *models.ConflictRecord) error {
	return errDown
}
func (downBackend) GetAllConflicts(context.Context) ([]models.ConflictRecord, error) {
	return nil, errDown
}
func (downBackend) DeleteConflict(context.Context, string) error { return errDown }
func (downBackend) LastSyncedAt(context.Context) (time.Time, error) {
	return time.Time{}, errDown
}
func (downBackend) SetLastSyncedAt(context.Context, time.Time) error { return errDown }
func (downBackend) Close() error                                     { return nil }

func TestResilient_PrefersSQLiteWhenHealthy(t *testing.T) {
	dir := t.TempDir()
	r, err := NewResilient(context.Background(), Options{
		DSN: filepath.Join(dir, "brewlog.db"),
		Dir: dir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	assert.Equal(t, KindSQLite, r.Kind())
}

func TestResilient_InitFailureFallsBackPermanently(t *testing.T) {
	dir := t.TempDir()
	// A directory path is not a usable SQLite database file.
	r, err := NewResilient(context.Background(), Options{
		DSN: dir,
		Dir: dir,
	})
	require.NoError(t, err, "fallback must absorb structured init failure")
	t.Cleanup(func() { _ = r.Close() })

	assert.Equal(t, KindFile, r.Kind())

	ctx := context.Background()
	d := testDraft("d1", "barista-1", time.Now().UTC())
	require.NoError(t, r.SaveDraft(ctx, d))

	got, err := r.GetDraft(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestResilient_MidSessionFailureUsesFallbackPerOperation(t *testing.T) {
	fallback, err := NewFileBackend(t.TempDir(), nil)
	require.NoError(t, err)

	r := &Resilient{structured: downBackend{}, fallback: fallback, log: logging.Nop()}
	ctx := context.Background()

	d := testDraft("d1", "barista-1", time.Now().UTC())
	require.NoError(t, r.SaveDraft(ctx, d), "save must degrade to the file store")

	got, err := r.GetDraft(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got, "read must degrade to the file store")

	// The structured backend stays selected: the failure was per-op.
	assert.Equal(t, KindSQLite, r.Kind())
}

func TestResilient_QueueAndConflictFallback(t *testing.T) {
	fallback, err := NewFileBackend(t.TempDir(), nil)
	require.NoError(t, err)

	r := &Resilient{structured: downBackend{}, fallback: fallback, log: logging.Nop()}
	ctx := context.Background()

	require.NoError(t, r.StoreQueue(ctx, []string{"a"}))
	ids, err := r.LoadQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	c := &models.ConflictRecord{DraftID: "a", Kind: models.ConflictKindData, DetectedAt: time.Now().UTC()}
	require.NoError(t, r.SaveConflict(ctx, c))
	all, err := r.GetAllConflicts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
