package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrew/brewlog/internal/common"
	"github.com/openbrew/brewlog/internal/models"

	_ "modernc.org/sqlite"
)

func setupSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func testDraft(id, barista string, created time.Time) *models.Draft {
	return &models.Draft{
		Id: id,
		Payload: models.BrewPayload{
			Name:      "flat white",
			MachineID: 1,
			BagID:     2,
			GrinderID: 3,
			BaristaID: barista,
		},
		CreatedAt:  created,
		ModifiedAt: created,
	}
}

func TestSQLite_SaveGetDraft_RoundTrip(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	d := testDraft("draft_1_abc", "barista-1", created)
	require.NoError(t, b.SaveDraft(ctx, d))

	got, err := b.GetDraft(ctx, "draft_1_abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Payload, got.Payload)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestSQLite_GetDraft_MissReturnsNilNil(t *testing.T) {
	b := setupSQLite(t)

	got, err := b.GetDraft(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_SaveDraft_FullReplace(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	d := testDraft("d1", "barista-1", created)
	require.NoError(t, b.SaveDraft(ctx, d))

	d.Payload.Name = "cortado"
	require.NoError(t, b.SaveDraft(ctx, d))

	got, err := b.GetDraft(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "cortado", got.Payload.Name)

	all, err := b.GetAllDrafts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_GetDraft_CorruptRecord(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	_, err := b.db.ExecContext(ctx,
		`INSERT INTO drafts (id, barista_id, record, created_at, modified_at) VALUES ('bad', 'x', 'not-json', 0, 0)`)
	require.NoError(t, err)

	_, err = b.GetDraft(ctx, "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorrupt)
}

func TestSQLite_DeleteAndClearDrafts(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, b.SaveDraft(ctx, testDraft("a", "x", now)))
	require.NoError(t, b.SaveDraft(ctx, testDraft("b", "x", now)))

	require.NoError(t, b.DeleteDraft(ctx, "a"))
	got, err := b.GetDraft(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting a missing id is not an error
	require.NoError(t, b.DeleteDraft(ctx, "a"))

	require.NoError(t, b.ClearDrafts(ctx))
	all, err := b.GetAllDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLite_Queue_ReplacePreservesOrder(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, b.StoreQueue(ctx, []string{"x", "y", "z"}))
	ids, err := b.LoadQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, ids)

	require.NoError(t, b.StoreQueue(ctx, []string{"y"}))
	ids, err = b.LoadQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, ids)

	require.NoError(t, b.StoreQueue(ctx, nil))
	ids, err = b.LoadQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSQLite_Conflicts_CRUD(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	c := &models.ConflictRecord{
		DraftID:    "d1",
		Local:      *testDraft("d1", "x", time.Now().UTC()),
		Kind:       models.ConflictKindVersion,
		Message:    "version conflict detected",
		DetectedAt: time.Now().UTC(),
	}
	require.NoError(t, b.SaveConflict(ctx, c))

	all, err := b.GetAllConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ConflictKindVersion, all[0].Kind)

	// refiling replaces, not duplicates
	c.Kind = models.ConflictKindData
	require.NoError(t, b.SaveConflict(ctx, c))
	all, err = b.GetAllConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ConflictKindData, all[0].Kind)

	require.NoError(t, b.DeleteConflict(ctx, "d1"))
	all, err = b.GetAllConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLite_LastSyncedAt(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	ts, err := b.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	want := time.Date(2026, 8, 23, 12, 30, 0, 0, time.UTC)
	require.NoError(t, b.SetLastSyncedAt(ctx, want))

	got, err := b.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}
