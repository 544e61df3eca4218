package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// QueryOptions control one retrieval request.
type QueryOptions struct {
	// TopK is the maximum number of results. Zero means the service
	// default; negative is invalid.
	TopK int
	// SourceTypes restricts results to the given source types.
	// Empty means no restriction.
	SourceTypes []domain.SourceType
	// MinScore drops results scoring below this threshold after
	// distance-to-score conversion. Zero keeps everything.
	MinScore float64
}

// Retriever answers semantic queries against the index.
type Retriever interface {
	// Query embeds the text and returns the nearest chunks as scored
	// results. Empty query text yields an empty result. Provider and
	// store failures degrade to an empty result rather than an error.
	Query(ctx context.Context, text string, opts QueryOptions) ([]domain.RetrievalResult, error)

	// DocumentBySource returns all chunks of one document, ordered by
	// chunk index, without similarity search.
	DocumentBySource(ctx context.Context, source string) ([]domain.RetrievalResult, error)
}
