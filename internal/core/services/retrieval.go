package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultTopK is the default number of retrieval results.
const DefaultTopK = 5

// RetrievalService answers semantic queries against the index.
// It implements the Retriever port.
type RetrievalService struct {
	embedder    driven.Embedder
	store       driven.VectorStore
	defaultTopK int
}

// NewRetrievalService creates a retrieval service. A defaultTopK of
// zero or less selects the package default.
func NewRetrievalService(embedder driven.Embedder, store driven.VectorStore, defaultTopK int) *RetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &RetrievalService{
		embedder:    embedder,
		store:       store,
		defaultTopK: defaultTopK,
	}
}

var _ driving.Retriever = (*RetrievalService)(nil)

// Query embeds the text and returns the nearest chunks as scored
// results. An empty query returns an empty result without touching the
// embedding provider. Provider and store failures are logged and
// degrade to an empty result; only invalid options are an error.
func (s *RetrievalService) Query(
	ctx context.Context, text string, opts driving.QueryOptions,
) ([]domain.RetrievalResult, error) {
	if strings.TrimSpace(text) == "" {
		logger.Warn("empty query")
		return nil, nil
	}

	topK := opts.TopK
	if topK == 0 {
		topK = s.defaultTopK
	}
	if topK < 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, opts.TopK)
	}

	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		logger.Warn("query embedding failed: %v", err)
		return nil, nil
	}

	filter := driven.Filter{}
	if len(opts.SourceTypes) > 0 {
		values := make([]string, len(opts.SourceTypes))
		for i, st := range opts.SourceTypes {
			values[i] = st.String()
		}
		filter["source_type"] = values
	}

	matches, err := s.store.Query(ctx, vector, topK, filter)
	if err != nil {
		logger.Warn("vector query failed: %v", err)
		return nil, nil
	}

	results := make([]domain.RetrievalResult, 0, len(matches))
	for _, m := range matches {
		score := 1.0 / (1.0 + m.Distance)
		if score < opts.MinScore {
			continue
		}
		meta, err := domain.ChunkMetadataFromMap(m.Metadata)
		if err != nil {
			logger.Warn("skipping result %s: %v", m.ID, err)
			continue
		}
		results = append(results, domain.RetrievalResult{
			Content:  m.Content,
			Metadata: meta,
			Score:    score,
			Distance: m.Distance,
		})
	}

	logger.Debug("query returned %d results (top_k=%d, min_score=%.2f)", len(results), topK, opts.MinScore)
	return results, nil
}

// DocumentBySource returns all chunks of one document in chunk order,
// without similarity search. Scores are 1 since no distance applies.
func (s *RetrievalService) DocumentBySource(ctx context.Context, source string) ([]domain.RetrievalResult, error) {
	records, err := s.store.Get(ctx, driven.GetRequest{
		Filter: driven.Filter{"source": {source}},
	})
	if err != nil {
		logger.Warn("document lookup failed for %q: %v", source, err)
		return nil, nil
	}

	results := make([]domain.RetrievalResult, 0, len(records))
	for _, rec := range records {
		meta, err := domain.ChunkMetadataFromMap(rec.Metadata)
		if err != nil {
			logger.Warn("skipping record %s: %v", rec.ID, err)
			continue
		}
		results = append(results, domain.RetrievalResult{
			Content:  rec.Content,
			Metadata: meta,
			Score:    1.0,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Metadata.ChunkIndex < results[j].Metadata.ChunkIndex
	})
	return results, nil
}
