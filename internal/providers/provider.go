// Package providers wraps external completion-model APIs behind a single
// client interface. The pipeline treats the model purely as a text
// completion oracle; prompt construction and response repair live outside
// this package.
package providers

import (
	"context"
	"time"
)

// CompletionClient is the interface the pipeline calls for model
// completions.
type CompletionClient interface {
	// Complete sends one completion request and returns the full result,
	// including usage accounting, whether or not the call succeeded.
	Complete(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to the completion model.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (client default if empty).
	Model string `json:"model,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Timeout     time.Duration

	// Request tracking.
	RequestID string `json:"-"`
}

// ChatResult is the complete response from one model call. Usage fields
// are populated on both success and failure so callers can account for
// every attempt.
type ChatResult struct {
	Content string `json:"content"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	CostUSD   float64       `json:"cost_usd"`
	TotalTime time.Duration `json:"total_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
