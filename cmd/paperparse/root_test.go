package main

import (
	"strings"
	"testing"

	"github.com/examtools/paperparse/internal/types"
)

func TestWriteOutputTo(t *testing.T) {
	result := types.ParseResult{
		Questions: []types.Question{
			{SequenceNumber: 1, QuestionText: "Where is the man?", QuestionType: types.TypeListening},
		},
		Template: "GENERIC",
	}

	t.Run("yaml flushes the full document", func(t *testing.T) {
		var b strings.Builder
		if err := writeOutputTo(&b, "yaml", result); err != nil {
			t.Fatalf("writeOutputTo() = %v", err)
		}
		out := b.String()
		if !strings.Contains(out, "Where is the man?") || !strings.Contains(out, "GENERIC") {
			t.Fatalf("yaml output incomplete:\n%s", out)
		}
	})

	t.Run("json is indented and complete", func(t *testing.T) {
		var b strings.Builder
		if err := writeOutputTo(&b, "json", result); err != nil {
			t.Fatalf("writeOutputTo() = %v", err)
		}
		out := b.String()
		if !strings.Contains(out, "\n  \"questions\"") || !strings.HasSuffix(strings.TrimSpace(out), "}") {
			t.Fatalf("json output malformed:\n%s", out)
		}
	})
}
