// Package driven defines the outbound ports of the Recall core:
// interfaces the core depends on, implemented by adapters.
package driven

import "context"

// EmbeddingService produces vector embeddings for text. Implementations
// wrap a specific provider (OpenAI, a local model) and are responsible
// for transport concerns only; request sizing is the Batcher's job.
type EmbeddingService interface {
	// EmbedBatch embeds a batch of texts in a single provider request.
	// The returned vectors are index-aligned with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of produced vectors.
	Dimensions() int

	// ModelName returns the provider model identifier.
	ModelName() string

	// Ping verifies the service is reachable and credentials are valid.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error
}
