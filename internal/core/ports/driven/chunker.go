package driven

import "github.com/custodia-labs/recall-cli/internal/core/domain"

// Chunker splits a document into indexable chunks. An empty document
// yields an empty slice, not an error.
type Chunker interface {
	ChunkDocument(doc domain.Document) ([]domain.Chunk, error)
}
