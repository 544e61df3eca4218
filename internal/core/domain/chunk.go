package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// ChunkID returns the deterministic identifier for a chunk: the first
// eight hex characters of the MD5 of the source identifier, an
// underscore, and the chunk index. Re-ingesting the same document
// therefore overwrites its previous chunks instead of duplicating them.
func ChunkID(source string, index int) string {
	sum := md5.Sum([]byte(source))
	return hex.EncodeToString(sum[:])[:8] + "_" + strconv.Itoa(index)
}

// ChunkMetadata is the per-chunk metadata stored alongside the
// embedding in the vector index. It is flattened to a map for storage;
// optional fields that are unset are omitted entirely.
type ChunkMetadata struct {
	// Source is the document's stable identifier within its source system.
	Source string
	// SourceType is the kind of source the document came from.
	SourceType SourceType
	// ChunkIndex is the zero-based position of this chunk in the document.
	ChunkIndex int
	// TotalChunks is how many chunks the document produced.
	TotalChunks int
	// Title is the document title.
	Title string
	// Author is the document author, if known.
	Author string
	// CreatedAt is the document creation time, if known.
	CreatedAt *time.Time
	// ModifiedAt is the document modification time, if known.
	ModifiedAt *time.Time
	// FileType is the lowercase file extension without the dot.
	FileType string
	// URL is a link back to the document, if known.
	URL string
	// IngestedAt is when this chunk was produced by the pipeline.
	IngestedAt time.Time
}

// Chunk is a contiguous span of document text with its metadata and,
// once embedded, its vector.
type Chunk struct {
	Content   string
	Metadata  ChunkMetadata
	Embedding []float32
}

// ID returns the chunk's deterministic identifier.
func (c *Chunk) ID() string {
	return ChunkID(c.Metadata.Source, c.Metadata.ChunkIndex)
}

// ToMap flattens the metadata for vector store storage. Optional
// fields that are unset are omitted rather than stored as null, and
// timestamps are serialised as RFC 3339 strings.
func (m ChunkMetadata) ToMap() map[string]any {
	out := map[string]any{
		"source":       m.Source,
		"source_type":  m.SourceType.String(),
		"chunk_index":  m.ChunkIndex,
		"total_chunks": m.TotalChunks,
		"title":        m.Title,
		"ingested_at":  m.IngestedAt.Format(time.RFC3339Nano),
	}
	if m.Author != "" {
		out["author"] = m.Author
	}
	if m.CreatedAt != nil {
		out["created_at"] = m.CreatedAt.Format(time.RFC3339Nano)
	}
	if m.ModifiedAt != nil {
		out["modified_at"] = m.ModifiedAt.Format(time.RFC3339Nano)
	}
	if m.FileType != "" {
		out["file_type"] = m.FileType
	}
	if m.URL != "" {
		out["url"] = m.URL
	}
	return out
}

// ChunkMetadataFromMap rebuilds metadata from its stored map form.
// Numeric fields tolerate the integer and float representations that
// JSON round-trips produce.
func ChunkMetadataFromMap(raw map[string]any) (ChunkMetadata, error) {
	var m ChunkMetadata
	m.Source = mapString(raw, "source")
	m.SourceType = SourceType(mapString(raw, "source_type"))
	m.Title = mapString(raw, "title")
	m.Author = mapString(raw, "author")
	m.FileType = mapString(raw, "file_type")
	m.URL = mapString(raw, "url")

	var err error
	if m.ChunkIndex, err = mapInt(raw, "chunk_index"); err != nil {
		return ChunkMetadata{}, err
	}
	if m.TotalChunks, err = mapInt(raw, "total_chunks"); err != nil {
		return ChunkMetadata{}, err
	}

	if s := mapString(raw, "ingested_at"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return ChunkMetadata{}, fmt.Errorf("%w: ingested_at %q", ErrInvalidInput, s)
		}
		m.IngestedAt = t
	}
	if s := mapString(raw, "created_at"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return ChunkMetadata{}, fmt.Errorf("%w: created_at %q", ErrInvalidInput, s)
		}
		m.CreatedAt = &t
	}
	if s := mapString(raw, "modified_at"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return ChunkMetadata{}, fmt.Errorf("%w: modified_at %q", ErrInvalidInput, s)
		}
		m.ModifiedAt = &t
	}
	return m, nil
}

func mapString(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func mapInt(raw map[string]any, key string) (int, error) {
	switch v := raw[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidInput, key, raw[key])
	}
}
