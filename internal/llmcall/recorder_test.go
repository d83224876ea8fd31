package llmcall

import (
	"testing"
	"time"

	"github.com/examtools/paperparse/internal/providers"
)

func TestFromChatResult(t *testing.T) {
	t.Run("nil result", func(t *testing.T) {
		if got := FromChatResult(nil, RecordOptions{}); got != nil {
			t.Fatalf("got %+v, want nil", got)
		}
	})

	t.Run("successful result", func(t *testing.T) {
		res := &providers.ChatResult{
			Content:          `{"questions": []}`,
			PromptTokens:     100,
			CompletionTokens: 20,
			TotalTime:        250 * time.Millisecond,
			Provider:         "mock",
			ModelUsed:        "test-model",
			Attempts:         1,
			Success:          true,
		}
		call := FromChatResult(res, RecordOptions{
			DocumentID: "doc-1",
			PartName:   "Listening_A",
			PromptKey:  "fragment",
		})
		if call.ID == "" {
			t.Error("call has no id")
		}
		if call.LatencyMs != 250 {
			t.Errorf("LatencyMs = %d, want 250", call.LatencyMs)
		}
		if call.InputTokens != 100 || call.OutputTokens != 20 {
			t.Errorf("tokens = %d/%d", call.InputTokens, call.OutputTokens)
		}
		if !call.Success || call.Error != "" {
			t.Errorf("call = %+v", call)
		}
	})

	t.Run("failed result keeps error", func(t *testing.T) {
		res := &providers.ChatResult{
			Success:      false,
			ErrorMessage: "timeout",
		}
		call := FromChatResult(res, RecordOptions{PromptKey: "fragment"})
		if call.Success || call.Error != "timeout" {
			t.Fatalf("call = %+v", call)
		}
	})
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	if len(r.Calls()) != 0 {
		t.Fatal("fresh recorder not empty")
	}

	r.Record(&providers.ChatResult{Success: true}, RecordOptions{PromptKey: "fragment"})
	r.Record(&providers.ChatResult{Success: false, ErrorMessage: "boom"}, RecordOptions{PromptKey: "optimize"})
	r.Record(nil, RecordOptions{})

	calls := r.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].PromptKey != "fragment" || calls[1].PromptKey != "optimize" {
		t.Fatalf("record order lost: %s, %s", calls[0].PromptKey, calls[1].PromptKey)
	}

	// Snapshot must be independent of later records.
	r.Record(&providers.ChatResult{Success: true}, RecordOptions{PromptKey: "fragment"})
	if len(calls) != 2 {
		t.Fatal("snapshot grew after later record")
	}
}
