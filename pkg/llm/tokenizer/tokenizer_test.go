package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproximateTokenizerCountTokens(t *testing.T) {
	tok := NewApproximateTokenizer()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "short", text: "abcd", want: 1},
		{name: "rounds up", text: "abcde", want: 2},
		{name: "sentence", text: "the quick brown fox jumps over the lazy dog", want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.CountTokens(tt.text))
		})
	}
}

func TestNewTokenizerDegradesGracefully(t *testing.T) {
	// Encoding initialization may fail in offline environments; either way
	// the returned tokenizer must count monotonically with input size.
	tok, _ := NewTokenizer()

	small := tok.CountTokens("hello")
	large := tok.CountTokens("hello hello hello hello hello hello hello hello")
	assert.Greater(t, large, small)
}
