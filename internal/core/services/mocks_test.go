package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// wordTokenizer counts whitespace-separated words. Word counts add up
// exactly across concatenation, which makes size bounds testable.
type wordTokenizer struct{}

func (wordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

// runeTokenizer counts runes, used to exercise the hard-split path.
type runeTokenizer struct{}

func (runeTokenizer) Count(text string) int {
	return len([]rune(text))
}

// fakeEmbeddingService records every batch it receives and returns
// deterministic per-text vectors. failOnCall (1-based) makes that call
// and all later ones fail; zero never fails.
type fakeEmbeddingService struct {
	mu         sync.Mutex
	calls      [][]string
	failOnCall int
	vectors    map[string][]float32
}

func (f *fakeEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.failOnCall > 0 && len(f.calls) >= f.failOnCall {
		return nil, errors.New("embedding provider down")
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
			continue
		}
		out[i] = vectorFor(text)
	}
	return out, nil
}

func (f *fakeEmbeddingService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeEmbeddingService) Dimensions() int { return 2 }
func (f *fakeEmbeddingService) ModelName() string { return "fake-embedding" }
func (f *fakeEmbeddingService) Ping(context.Context) error { return nil }
func (f *fakeEmbeddingService) Close() error { return nil }

var _ driven.EmbeddingService = (*fakeEmbeddingService)(nil)

// vectorFor derives a stable 2-dim vector from the text.
func vectorFor(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	sum := h.Sum32()
	return []float32{float32(sum % 997), float32(sum % 991)}
}

// failingChunker wraps a real chunker and fails for one source.
type failingChunker struct {
	inner      driven.Chunker
	failSource string
}

func (c *failingChunker) ChunkDocument(doc domain.Document) ([]domain.Chunk, error) {
	if doc.Metadata.Source == c.failSource {
		return nil, fmt.Errorf("splitter blew up on %s", doc.Metadata.Source)
	}
	return c.inner.ChunkDocument(doc)
}

var _ driven.Chunker = (*failingChunker)(nil)

// fakeConnector serves canned descriptors and documents, recording
// which sources were fetched.
type fakeConnector struct {
	descriptors []domain.FileDescriptor
	documents   map[string]*domain.Document
	fetched     []string
	validateErr error
}

func (c *fakeConnector) Type() domain.SourceType { return domain.SourceLocal }
func (c *fakeConnector) Validate(context.Context) error { return c.validateErr }

func (c *fakeConnector) List(context.Context) ([]domain.FileDescriptor, error) {
	return c.descriptors, nil
}

func (c *fakeConnector) Fetch(_ context.Context, desc domain.FileDescriptor) (*domain.Document, error) {
	c.fetched = append(c.fetched, desc.Source)
	doc, ok := c.documents[desc.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, desc.Source)
	}
	return doc, nil
}

func (c *fakeConnector) Close() error { return nil }

var _ driven.Connector = (*fakeConnector)(nil)
