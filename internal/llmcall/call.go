// Package llmcall records completion-model calls for traceability. Every
// model call made while parsing a document is captured with its prompt
// key, response, and usage.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/examtools/paperparse/internal/providers"
)

// Call is one recorded completion-model call.
type Call struct {
	ID string `json:"id"`

	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Context references.
	DocumentID string `json:"document_id,omitempty"`
	PartName   string `json:"part_name,omitempty"`

	// Prompt traceability.
	PromptKey string `json:"prompt_key"`
	PromptCID string `json:"prompt_cid,omitempty"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	Attempts     int     `json:"attempts"`

	Response string `json:"response"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording one call.
type RecordOptions struct {
	DocumentID string
	PartName   string

	// PromptKey names which prompt produced the call (required for
	// traceability). PromptCID pins the exact prompt text version.
	PromptKey string
	PromptCID string
}

// FromChatResult creates a Call from a ChatResult. Returns nil if result
// is nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.TotalTime.Milliseconds()),
		DocumentID:   opts.DocumentID,
		PartName:     opts.PartName,
		PromptKey:    opts.PromptKey,
		PromptCID:    opts.PromptCID,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		CostUSD:      result.CostUSD,
		Attempts:     result.Attempts,
		Response:     result.Content,
		Success:      result.Success,
	}
	if !result.Success {
		call.Error = result.ErrorMessage
	}
	return call
}
