package driven

// Tokenizer counts tokens the way the embedding model counts them.
// The chunker uses it to size chunks and the batcher uses it to stay
// under per-request token limits.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) int
}
