package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrew/brewlog/internal/storage"
)

func setupQueue(t *testing.T) (*Queue, storage.Backend) {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir(), nil)
	require.NoError(t, err)
	return New(backend), backend
}

func TestEnqueue_PreservesInsertionOrder(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))
	require.NoError(t, q.Enqueue(ctx, "c"))

	ids, err := q.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestEnqueue_Idempotent(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))
	require.NoError(t, q.Enqueue(ctx, "a"))

	ids, err := q.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids, "re-enqueue must neither duplicate nor reorder")
}

func TestRemove_KeepsRelativeOrder(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(ctx, id))
	}
	require.NoError(t, q.Remove(ctx, "b"))

	ids, err := q.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	// removing an absent id is a no-op
	require.NoError(t, q.Remove(ctx, "zzz"))
}

func TestQueue_PersistsAcrossInstances(t *testing.T) {
	q, backend := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))

	reopened := New(backend)
	ids, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestClearAndLen(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "a"))
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, q.Clear(ctx))
	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
