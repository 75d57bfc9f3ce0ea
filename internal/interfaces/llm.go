package interfaces

import (
	"context"
)

// Message represents a single message in a model conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ContentRequest represents a provider-agnostic content generation request.
// Temperature is a pointer so an explicit 0.0 stays distinguishable from
// unset; nil falls back to the provider's configured default.
type ContentRequest struct {
	Messages          []Message
	Model             string
	Temperature       *float32
	MaxTokens         int
	SystemInstruction string
	OutputSchema      map[string]interface{} // JSON schema for structured output
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider string
	Model    string
}

// ContentGenerator defines the interface for AI content generation.
// Implementations make exactly one attempt per call; transient failures
// propagate to the caller rather than being retried internally.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	Close() error
}
