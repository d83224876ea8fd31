package metrics

import (
	"testing"

	"github.com/examtools/paperparse/internal/llmcall"
)

func TestSummarize(t *testing.T) {
	calls := []*llmcall.Call{
		{PromptKey: "fragment", Success: true, InputTokens: 100, OutputTokens: 50, CostUSD: 0.01, LatencyMs: 200},
		{PromptKey: "fragment", Success: false, InputTokens: 100, OutputTokens: 0, LatencyMs: 1000},
		{PromptKey: "optimize", Success: true, InputTokens: 40, OutputTokens: 10, CostUSD: 0.002, LatencyMs: 100},
		nil,
	}

	s := Summarize(calls)
	if s.Calls != 3 || s.FailedCalls != 1 {
		t.Fatalf("calls = %d, failed = %d", s.Calls, s.FailedCalls)
	}
	if s.PromptTokens != 240 || s.CompletionTokens != 60 || s.TotalTokens != 300 {
		t.Fatalf("tokens = %d/%d/%d", s.PromptTokens, s.CompletionTokens, s.TotalTokens)
	}
	if s.TotalLatencyMs != 1300 {
		t.Fatalf("latency = %d", s.TotalLatencyMs)
	}

	if got := Summarize(nil); got.Calls != 0 {
		t.Fatalf("empty summary = %+v", got)
	}
}

func TestByPromptKey(t *testing.T) {
	calls := []*llmcall.Call{
		{PromptKey: "fragment", Success: true, InputTokens: 10},
		{PromptKey: "optimize", Success: true, InputTokens: 5},
		{PromptKey: "fragment", Success: true, InputTokens: 10},
	}
	grouped := ByPromptKey(calls)
	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2", len(grouped))
	}
	if grouped["fragment"].Calls != 2 || grouped["fragment"].PromptTokens != 20 {
		t.Fatalf("fragment group = %+v", grouped["fragment"])
	}
}
