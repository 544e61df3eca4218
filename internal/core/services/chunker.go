// Package services contains the core pipeline services: chunking,
// embedding batching, change detection, ingestion, and retrieval.
package services

import (
	"strings"
	"time"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultChunkSize is the default chunk size in tokens.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default overlap between chunks in tokens.
const DefaultChunkOverlap = 50

// charsPerToken is the rough character-per-token ratio used to size
// the hard-split window before the tokenizer refines it.
const charsPerToken = 4

// defaultSeparators is the cascade tried from coarsest to finest:
// paragraph breaks, line breaks, sentence ends, words, and finally
// raw character windows.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// TokenChunker splits documents into chunks sized by token count.
// Splitting prefers the coarsest separator that keeps pieces within
// the size bound, so paragraphs survive intact when they fit.
// It implements the Chunker port.
type TokenChunker struct {
	chunkSize  int
	overlap    int
	tokenizer  driven.Tokenizer
	separators []string
	charWindow int
}

// ChunkerOption configures a TokenChunker.
type ChunkerOption func(*TokenChunker)

// WithChunkSize sets the chunk size in tokens.
func WithChunkSize(size int) ChunkerOption {
	return func(c *TokenChunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in tokens.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *TokenChunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewTokenChunker creates a chunker that measures size with the given
// tokenizer.
func NewTokenChunker(tokenizer driven.Tokenizer, opts ...ChunkerOption) *TokenChunker {
	c := &TokenChunker{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		tokenizer:  tokenizer,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	c.charWindow = c.chunkSize * charsPerToken

	return c
}

var _ driven.Chunker = (*TokenChunker)(nil)

// ChunkDocument splits a document into chunks, each carrying the
// document's metadata plus its index. Empty or whitespace-only
// content produces no chunks.
func (c *TokenChunker) ChunkDocument(doc domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	pieces := c.splitText(doc.Content)
	now := time.Now().UTC()

	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		text := strings.TrimSpace(piece)
		if text == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			Content: text,
			Metadata: domain.ChunkMetadata{
				Source:     doc.Metadata.Source,
				SourceType: doc.Metadata.SourceType,
				ChunkIndex: len(chunks),
				Title:      doc.Metadata.Title,
				Author:     doc.Metadata.Author,
				CreatedAt:  doc.Metadata.CreatedAt,
				ModifiedAt: doc.Metadata.ModifiedAt,
				FileType:   doc.Metadata.FileType,
				URL:        doc.Metadata.URL,
				IngestedAt: now,
			},
		})
	}
	for i := range chunks {
		chunks[i].Metadata.TotalChunks = len(chunks)
	}

	logger.Debug("chunked %q into %d chunks", doc.Metadata.Title, len(chunks))
	return chunks, nil
}

// ChunkDocuments splits many documents and concatenates the results in
// input order.
func (c *TokenChunker) ChunkDocuments(docs []domain.Document) ([]domain.Chunk, error) {
	var all []domain.Chunk
	for _, doc := range docs {
		chunks, err := c.ChunkDocument(doc)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// splitText breaks text into fragments within the token bound, then
// reassembles them greedily into chunks with overlap carried between
// consecutive chunks.
func (c *TokenChunker) splitText(text string) []string {
	fragments := c.fragment(text, c.separators)
	return c.assemble(fragments)
}

// fragment recursively splits text until every piece fits within
// chunkSize tokens, descending the separator cascade only for pieces
// that are still too large. Separators stay attached to the end of
// the preceding piece so concatenating fragments reconstructs the text.
func (c *TokenChunker) fragment(text string, separators []string) []string {
	if c.tokenizer.Count(text) <= c.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 || separators[0] == "" {
		return c.hardSplit(text)
	}

	sep := separators[0]
	rest := separators[1:]

	parts := splitAfter(text, sep)
	if len(parts) == 1 {
		// Separator not present; try the next finer one.
		return c.fragment(text, rest)
	}

	var out []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if c.tokenizer.Count(part) > c.chunkSize {
			out = append(out, c.fragment(part, rest)...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// hardSplit cuts text into rune windows, shrinking each window until
// its token count fits. Last resort for text with no separators at all.
func (c *TokenChunker) hardSplit(text string) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); {
		end := start + c.charWindow
		if end > len(runes) {
			end = len(runes)
		}
		for end > start+1 && c.tokenizer.Count(string(runes[start:end])) > c.chunkSize {
			end = start + (end-start)/2
		}
		out = append(out, string(runes[start:end]))
		start = end
	}
	return out
}

// assemble merges fragments greedily: each chunk takes fragments until
// the next one would push it past the token bound, then closes and
// seeds the next chunk with up to overlap tokens of trailing fragments.
func (c *TokenChunker) assemble(fragments []string) []string {
	var chunks []string
	var current []string
	currentTokens := 0

	for _, frag := range fragments {
		tokens := c.tokenizer.Count(frag)
		if currentTokens+tokens > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ""))

			// Carry trailing fragments into the next chunk as overlap.
			// Never carry the whole chunk: progress requires dropping
			// at least the first fragment.
			var kept []string
			keptTokens := 0
			for i := len(current) - 1; i > 0; i-- {
				t := c.tokenizer.Count(current[i])
				if keptTokens+t > c.overlap {
					break
				}
				kept = append([]string{current[i]}, kept...)
				keptTokens += t
			}
			current = kept
			currentTokens = keptTokens

			// Trim carried fragments from the front so the incoming
			// fragment still fits within the token bound.
			for len(current) > 0 && currentTokens+tokens > c.chunkSize {
				currentTokens -= c.tokenizer.Count(current[0])
				current = current[1:]
			}
		}
		current = append(current, frag)
		currentTokens += tokens
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}
	return chunks
}

// splitAfter splits text on sep, keeping sep attached to the piece
// before it.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	// SplitAfter can yield a trailing empty string when text ends
	// with sep.
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}
