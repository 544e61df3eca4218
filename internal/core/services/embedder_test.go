package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestBatcher_EmptyInput(t *testing.T) {
	svc := &fakeEmbeddingService{}
	b := NewBatcher(svc, wordTokenizer{}, 0)

	vectors, err := b.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Equal(t, 0, svc.callCount())
}

func TestBatcher_SingleBatchUnderCeiling(t *testing.T) {
	svc := &fakeEmbeddingService{}
	b := NewBatcher(svc, wordTokenizer{}, 100)

	texts := []string{"one two", "three", "four five six"}
	vectors, err := b.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	assert.Equal(t, 1, svc.callCount())
}

func TestBatcher_SplitsOverCeiling_PreservesOrder(t *testing.T) {
	// 500 one-token texts with a 100-token ceiling: five requests.
	texts := make([]string, 500)
	for i := range texts {
		texts[i] = fmt.Sprintf("text%d", i)
	}

	svc := &fakeEmbeddingService{}
	b := NewBatcher(svc, wordTokenizer{}, 100)

	vectors, err := b.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	assert.Equal(t, 5, svc.callCount())

	// Flattened output must align with input order.
	for i, text := range texts {
		assert.Equal(t, vectorFor(text), vectors[i], "vector %d", i)
	}
}

func TestBatcher_OversizedTextGetsOwnBatch(t *testing.T) {
	oversized := ""
	for i := 0; i < 30; i++ {
		oversized += fmt.Sprintf("word%d ", i)
	}

	svc := &fakeEmbeddingService{}
	b := NewBatcher(svc, wordTokenizer{}, 10)

	batches := b.batch([]string{"small one", oversized, "small two"})
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"small one"}, batches[0])
	assert.Equal(t, []string{oversized}, batches[1])
	assert.Equal(t, []string{"small two"}, batches[2])
}

func TestBatcher_ProviderErrorPropagates(t *testing.T) {
	svc := &fakeEmbeddingService{failOnCall: 1}
	b := NewBatcher(svc, wordTokenizer{}, 0)

	_, err := b.EmbedTexts(context.Background(), []string{"text"})
	assert.Error(t, err)
}

func TestBatcher_EmbedChunks_AttachesInOrder(t *testing.T) {
	svc := &fakeEmbeddingService{}
	b := NewBatcher(svc, wordTokenizer{}, 0)

	chunks := []domain.Chunk{
		{Content: "chunk alpha", Metadata: domain.ChunkMetadata{Source: "a", ChunkIndex: 0}},
		{Content: "chunk beta", Metadata: domain.ChunkMetadata{Source: "a", ChunkIndex: 1}},
	}

	embedded, err := b.EmbedChunks(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, embedded, 2)
	assert.Equal(t, vectorFor("chunk alpha"), embedded[0].Embedding)
	assert.Equal(t, vectorFor("chunk beta"), embedded[1].Embedding)
}

func TestBatcher_EmbedText(t *testing.T) {
	svc := &fakeEmbeddingService{}
	b := NewBatcher(svc, wordTokenizer{}, 0)

	vector, err := b.EmbedText(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, vectorFor("hello world"), vector)
}
