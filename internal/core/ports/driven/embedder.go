package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// Embedder is the batching layer above EmbeddingService. The pipeline
// and the retrieval service depend on it rather than on the raw
// provider so that request sizing stays in one place.
type Embedder interface {
	// EmbedTexts embeds all texts, splitting them into as many provider
	// requests as token limits require. Output is index-aligned with input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedText embeds a single text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedChunks embeds the chunks' content and returns the chunks
	// with embeddings attached, in the original order.
	EmbedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
}
