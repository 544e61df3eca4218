package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID_Deterministic(t *testing.T) {
	a := ChunkID("/home/user/notes.md", 0)
	b := ChunkID("/home/user/notes.md", 0)
	assert.Equal(t, a, b)

	// Known value: first 8 hex chars of md5("/home/user/notes.md") + "_0"
	assert.Len(t, a, 10)
	assert.Regexp(t, `^[0-9a-f]{8}_0$`, a)
}

func TestChunkID_VariesBySourceAndIndex(t *testing.T) {
	assert.NotEqual(t, ChunkID("a", 0), ChunkID("b", 0))
	assert.NotEqual(t, ChunkID("a", 0), ChunkID("a", 1))
}

func TestChunk_ID(t *testing.T) {
	c := Chunk{Metadata: ChunkMetadata{Source: "doc-1", ChunkIndex: 3}}
	assert.Equal(t, ChunkID("doc-1", 3), c.ID())
}

func TestChunkMetadata_ToMap_OmitsUnsetOptionals(t *testing.T) {
	m := ChunkMetadata{
		Source:      "doc-1",
		SourceType:  SourceLocal,
		ChunkIndex:  0,
		TotalChunks: 2,
		Title:       "Doc",
		IngestedAt:  time.Now().UTC(),
	}

	raw := m.ToMap()
	assert.NotContains(t, raw, "author")
	assert.NotContains(t, raw, "created_at")
	assert.NotContains(t, raw, "modified_at")
	assert.NotContains(t, raw, "url")
	assert.NotContains(t, raw, "file_type")

	// None of the stored values may be nil.
	for key, value := range raw {
		assert.NotNil(t, value, "key %s", key)
	}
	assert.Equal(t, "local", raw["source_type"])
}

func TestChunkMetadata_RoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 6, 2, 12, 30, 0, 0, time.UTC)
	m := ChunkMetadata{
		Source:      "file-id-42",
		SourceType:  SourceGoogleDrive,
		ChunkIndex:  4,
		TotalChunks: 9,
		Title:       "Quarterly Notes",
		Author:      "Sam",
		CreatedAt:   &created,
		ModifiedAt:  &modified,
		FileType:    "gdoc",
		URL:         "https://docs.google.com/d/x",
		IngestedAt:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	got, err := ChunkMetadataFromMap(m.ToMap())
	require.NoError(t, err)
	assert.Equal(t, m.Source, got.Source)
	assert.Equal(t, m.SourceType, got.SourceType)
	assert.Equal(t, m.ChunkIndex, got.ChunkIndex)
	assert.Equal(t, m.TotalChunks, got.TotalChunks)
	assert.Equal(t, m.Title, got.Title)
	assert.Equal(t, m.Author, got.Author)
	assert.Equal(t, m.FileType, got.FileType)
	assert.Equal(t, m.URL, got.URL)
	require.NotNil(t, got.CreatedAt)
	require.NotNil(t, got.ModifiedAt)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.ModifiedAt.Equal(modified))
	assert.True(t, got.IngestedAt.Equal(m.IngestedAt))
}

func TestChunkMetadataFromMap_ToleratesJSONNumbers(t *testing.T) {
	// JSON round trips store integers back as float64.
	raw := map[string]any{
		"source":       "doc-1",
		"source_type":  "local",
		"chunk_index":  float64(2),
		"total_chunks": float64(5),
		"title":        "Doc",
		"ingested_at":  "2024-07-01T00:00:00Z",
	}

	got, err := ChunkMetadataFromMap(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ChunkIndex)
	assert.Equal(t, 5, got.TotalChunks)
}

func TestChunkMetadataFromMap_RejectsBadTimestamp(t *testing.T) {
	raw := map[string]any{
		"source":      "doc-1",
		"ingested_at": "yesterday",
	}
	_, err := ChunkMetadataFromMap(raw)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseSourceType(t *testing.T) {
	st, err := ParseSourceType("local")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, st)

	st, err = ParseSourceType("gdrive")
	require.NoError(t, err)
	assert.Equal(t, SourceGoogleDrive, st)

	_, err = ParseSourceType("ftp")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
