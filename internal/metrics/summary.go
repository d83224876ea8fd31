// Package metrics aggregates recorded model calls into per-document usage
// summaries.
package metrics

import (
	"github.com/examtools/paperparse/internal/llmcall"
	"github.com/examtools/paperparse/internal/types"
)

// Summarize folds recorded calls into one usage summary.
func Summarize(calls []*llmcall.Call) types.UsageSummary {
	var s types.UsageSummary
	for _, c := range calls {
		if c == nil {
			continue
		}
		s.Calls++
		if !c.Success {
			s.FailedCalls++
		}
		s.PromptTokens += c.InputTokens
		s.CompletionTokens += c.OutputTokens
		s.TotalTokens += c.InputTokens + c.OutputTokens
		s.CostUSD += c.CostUSD
		s.TotalLatencyMs += c.LatencyMs
	}
	return s
}

// ByPromptKey groups usage per prompt key, preserving no particular order.
func ByPromptKey(calls []*llmcall.Call) map[string]types.UsageSummary {
	grouped := map[string][]*llmcall.Call{}
	for _, c := range calls {
		if c == nil {
			continue
		}
		grouped[c.PromptKey] = append(grouped[c.PromptKey], c)
	}
	out := make(map[string]types.UsageSummary, len(grouped))
	for key, group := range grouped {
		out[key] = Summarize(group)
	}
	return out
}
