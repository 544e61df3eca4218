package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

func record(id string, embedding []float32, sourceType string) driven.Record {
	return driven.Record{
		ID:        id,
		Content:   "content of " + id,
		Embedding: embedding,
		Metadata:  map[string]any{"source": id, "source_type": sourceType},
	}
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []driven.Record{record("a", []float32{1, 0}, "local")}))
	require.NoError(t, store.Upsert(ctx, []driven.Record{record("a", []float32{0, 1}, "local")}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	recs, err := store.Get(ctx, driven.GetRequest{IDs: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []float32{0, 1}, recs[0].Embedding)
}

func TestStore_QueryOrdersByDistance(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Record{
		record("near", []float32{1, 0}, "local"),
		record("far", []float32{0, 1}, "local"),
		record("mid", []float32{0.5, 0.5}, "local"),
	}))

	matches, err := store.Query(ctx, []float32{1, 0}, 0, nil)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "near", matches[0].ID)
	assert.Equal(t, "mid", matches[1].ID)
	assert.Equal(t, "far", matches[2].ID)
	assert.Equal(t, 0.0, matches[0].Distance)
	assert.Equal(t, 2.0, matches[2].Distance)
}

func TestStore_QueryTopKAndFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Record{
		record("a", []float32{1, 0}, "local"),
		record("b", []float32{0.9, 0}, "gdrive"),
		record("c", []float32{0, 1}, "local"),
	}))

	matches, err := store.Query(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)

	matches, err = store.Query(ctx, []float32{1, 0}, 0, driven.Filter{"source_type": {"gdrive"}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)
}

func TestStore_GetMissingIDsOmitted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Record{record("a", []float32{1}, "local")}))

	recs, err := store.Get(ctx, driven.GetRequest{IDs: []string{"a", "missing"}})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestStore_GetByFilterWithLimit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Record{
		record("a", []float32{1}, "local"),
		record("b", []float32{1}, "local"),
		record("c", []float32{1}, "gdrive"),
	}))

	recs, err := store.Get(ctx, driven.GetRequest{Filter: driven.Filter{"source_type": {"local"}}})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = store.Get(ctx, driven.GetRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Record{record("a", []float32{1}, "local")}))
	require.NoError(t, store.Reset(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_Location(t *testing.T) {
	assert.Equal(t, "memory", NewStore().Location())
}
