// Package tokenizer provides client-side token counting for conversation
// accounting. Counts are approximate (one encoding for all models) and
// used for logging and truncation decisions only.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/webpilot/webpilot/pkg/types"
)

const encodingName = "cl100k_base"

// Per-item structural overhead, a rough allowance for role and framing
// tokens.
const itemOverheadTokens = 4

// Tokenizer counts tokens using a tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer. The encoding is downloaded on first use and
// cached by tiktoken.
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// CountTokens returns the token count of a text fragment.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountConversationTokens approximates the token footprint of a
// conversation: text content plus function call arguments, with a small
// per-item overhead. Screenshots are excluded; image tokens are billed
// server-side by resolution, not text length.
func (t *Tokenizer) CountConversationTokens(conv types.Conversation) int {
	total := 0
	for _, item := range conv {
		total += itemOverheadTokens
		total += t.CountTokens(item.Content.Text())
		total += t.CountTokens(item.Arguments)
	}
	return total
}
