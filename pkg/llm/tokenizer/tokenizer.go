// Package tokenizer provides client-side token counting for prompt budgeting.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used for counting. Backend tokenizers
// differ slightly, but cl100k_base is close enough for budgeting purposes.
const DefaultEncoding = "cl100k_base"

// approxBytesPerToken is the fallback ratio when no encoding is available.
const approxBytesPerToken = 4

// Tokenizer counts tokens in text using a tiktoken encoding, falling back to
// a byte-ratio approximation when the encoding could not be initialized.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenizer creates a tokenizer with the default encoding. On failure it
// returns a usable approximate tokenizer along with the error, so callers can
// degrade to byte-ratio counting instead of losing budgeting entirely.
func NewTokenizer() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return &Tokenizer{}, fmt.Errorf("tokenizer: failed to load encoding %s: %w", DefaultEncoding, err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// NewApproximateTokenizer creates a tokenizer that only uses the byte-ratio
// approximation. Useful in tests and offline environments.
func NewApproximateTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if t.encoding == nil {
		return (len(text) + approxBytesPerToken - 1) / approxBytesPerToken
	}
	return len(t.encoding.Encode(text, nil, nil))
}
