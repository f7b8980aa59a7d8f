package llm

import (
	"context"
	"errors"
)

// Message roles. Order of messages in a conversation is significant: later
// entries are responses to earlier ones.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// ErrExhausted signals that the primary model and every configured fallback
// failed. The caller treats this as fatal for the invocation; the gateway
// does not retry further.
var ErrExhausted = errors.New("all completion models exhausted")

// Provider is the completion gateway: given an ordered message sequence it
// returns a single assistant message. Retry and model fallback live behind
// this interface, never in the callers.
type Provider interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
