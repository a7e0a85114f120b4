package core

import "context"

// Message represents a single chat turn. Assistant turns may carry tool call
// requests; tool turns carry the correlation id of the call they answer.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a model-issued request to invoke a named tool. Arguments is the
// raw JSON string exactly as the model produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolSpec declares a callable tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Options controls model behavior; zero fields fall back to provider defaults.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
}

// ChatRequest carries the full conversation plus an optional tool schema.
type ChatRequest struct {
	Messages   []Message
	Tools      []ToolSpec
	ToolChoice string
	Options    Options
}

// ChatResponse is one model round-trip. A response with no tool calls is a
// final answer. Citations are populated by search-grounded providers.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
	Citations []string
}

// Client is a provider-agnostic interface for the chat operations we need.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
