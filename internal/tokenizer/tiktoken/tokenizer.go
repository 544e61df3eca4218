// Package tiktoken adapts the tiktoken BPE tokenizer to the Tokenizer
// port, counting tokens the same way the OpenAI embedding models do.
package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// fallbackEncoding is used when the model has no registered encoding.
const fallbackEncoding = "cl100k_base"

// Tokenizer counts tokens with the encoding of a specific model.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// New creates a tokenizer for the given model, falling back to
// cl100k_base when the model is unknown to tiktoken.
func New(model string) (*Tokenizer, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("no tokenizer registered for model %q, using %s", model, fallbackEncoding)
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("load %s encoding: %w", fallbackEncoding, err)
		}
	}
	return &Tokenizer{encoding: encoding, name: model}, nil
}

var _ driven.Tokenizer = (*Tokenizer)(nil)

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
