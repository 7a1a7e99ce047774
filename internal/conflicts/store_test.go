package conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrew/brewlog/internal/models"
	"github.com/openbrew/brewlog/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir(), nil)
	require.NoError(t, err)
	return NewStore(backend)
}

func record(id string, kind models.ConflictKind) *models.ConflictRecord {
	return &models.ConflictRecord{
		DraftID: id,
		Local:   models.Draft{Id: id},
		Kind:    kind,
		Message: "duplicate entry",
	}
}

func TestFile_StampsDetectedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	c := record("d1", models.ConflictKindData)
	require.NoError(t, s.File(ctx, c))
	assert.False(t, c.DetectedAt.IsZero())

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].DetectedAt.IsZero())
}

func TestFile_KeepsExplicitDetectedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	want := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	c := record("d1", models.ConflictKindVersion)
	c.DetectedAt = want
	require.NoError(t, s.File(ctx, c))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].DetectedAt.Equal(want))
}

func TestResolve_RemovesOnlyThatRecord(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.File(ctx, record("d1", models.ConflictKindData)))
	require.NoError(t, s.File(ctx, record("d2", models.ConflictKindVersion)))

	require.NoError(t, s.Resolve(ctx, "d1"))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "d2", all[0].DraftID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// resolving an unknown id is a no-op
	require.NoError(t, s.Resolve(ctx, "ghost"))
}
