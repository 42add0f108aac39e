// Package assistant answers air-quality questions with a hosted chat model,
// falling back to deterministic responses when no provider is configured.
package assistant

import "context"

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// Request is a prompt request to a chat provider.
type Request struct {
	Messages  []Message
	MaxTokens int
}

// Provider is the interface for hosted chat-completion backends.
type Provider interface {
	// Name returns the provider name (e.g. "openai").
	Name() string

	// Available returns true if the provider is configured and ready.
	Available() bool

	// Complete sends the conversation and returns the assistant's reply.
	Complete(ctx context.Context, req Request) (string, error)
}
