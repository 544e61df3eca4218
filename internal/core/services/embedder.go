package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultMaxRequestTokens is the per-request token ceiling for
// embedding batches, matching the OpenAI embeddings API limit.
const DefaultMaxRequestTokens = 300_000

// Batcher sits between the pipeline and the raw embedding service,
// packing texts into as few provider requests as the per-request token
// ceiling allows. Order is preserved end to end.
// It implements the Embedder port.
type Batcher struct {
	service          driven.EmbeddingService
	tokenizer        driven.Tokenizer
	maxRequestTokens int
}

// NewBatcher creates a Batcher. A maxRequestTokens of zero or less
// selects the default ceiling.
func NewBatcher(service driven.EmbeddingService, tokenizer driven.Tokenizer, maxRequestTokens int) *Batcher {
	if maxRequestTokens <= 0 {
		maxRequestTokens = DefaultMaxRequestTokens
	}
	return &Batcher{
		service:          service,
		tokenizer:        tokenizer,
		maxRequestTokens: maxRequestTokens,
	}
}

var _ driven.Embedder = (*Batcher)(nil)

// EmbedTexts embeds all texts, batching greedily under the token
// ceiling. A single text exceeding the ceiling is sent alone and left
// to the provider to accept or reject.
func (b *Batcher) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batches := b.batch(texts)
	if len(batches) > 1 {
		logger.Debug("embedding %d texts in %d batches", len(texts), len(batches))
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches {
		vectors, err := b.service.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch of %d texts: %w", len(batch), err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(vectors), len(batch))
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// EmbedText embeds a single text.
func (b *Batcher) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := b.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed text: got %d vectors for 1 text", len(vectors))
	}
	return vectors[0], nil
}

// EmbedChunks embeds the chunks' content and attaches the vectors in
// the original chunk order.
func (b *Batcher) EmbedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}

	vectors, err := b.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return chunks, nil
}

// batch groups texts greedily: each batch takes texts until the next
// one would push it over the token ceiling. An oversized single text
// becomes its own batch.
func (b *Batcher) batch(texts []string) [][]string {
	var batches [][]string
	var current []string
	currentTokens := 0

	for _, text := range texts {
		tokens := b.tokenizer.Count(text)
		if len(current) > 0 && currentTokens+tokens > b.maxRequestTokens {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, text)
		currentTokens += tokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
