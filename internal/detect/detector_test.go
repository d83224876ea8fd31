package detect

import (
	"regexp"
	"testing"

	"github.com/examtools/paperparse/internal/rules"
	"github.com/examtools/paperparse/internal/types"
)

func TestDetect_Unknown(t *testing.T) {
	d := New()

	for _, text := range []string{"", "xyzzy plugh", "1234567890"} {
		got := d.Detect(text)
		if got.QuestionType != types.TypeUnknown {
			t.Errorf("Detect(%q).QuestionType = %s, want UNKNOWN", text, got.QuestionType)
		}
		if got.SubType != UnknownSubType {
			t.Errorf("Detect(%q).SubType = %q, want %q", text, got.SubType, UnknownSubType)
		}
		if got.Confidence != 0.0 {
			t.Errorf("Detect(%q).Confidence = %v, want 0.0", text, got.Confidence)
		}
	}
}

func TestDetect_ChoiceFragment(t *testing.T) {
	d := New()

	text := "21. He ____ to school by bike every day, but today he took the bus instead because of the rain.\n" +
		"A) goes\nB) went\nC) going\nD) gone\n"
	got := d.Detect(text)

	if got.QuestionType != types.TypeChoice && got.QuestionType != types.TypeFillBlank {
		t.Errorf("QuestionType = %s, want CHOICE or FILL_BLANK", got.QuestionType)
	}
	if got.Confidence <= minConfidence {
		t.Errorf("Confidence = %v, want > %v", got.Confidence, minConfidence)
	}
}

func TestDetect_GrammarFillBlank(t *testing.T) {
	d := New()

	text := "21. She ____ (happy) agreed to join us.\n22. They answered ____ (quick) when asked."
	got := d.Detect(text)

	if got.QuestionType != types.TypeFillBlank {
		t.Errorf("QuestionType = %s, want FILL_BLANK", got.QuestionType)
	}
}

func TestDetect_ListeningSection(t *testing.T) {
	d := New()

	text := "Section A\nDirections: In Section A, you will hear ten short conversations between two speakers. " +
		"At the end of each conversation, a question will be asked about what was said."
	got := d.Detect(text)

	if got.QuestionType != types.TypeListening {
		t.Fatalf("QuestionType = %s, want LISTENING", got.QuestionType)
	}
	if got.Features["matched_patterns"] == 0 {
		t.Error("expected at least one matched pattern feature")
	}
}

func TestDetect_ConfidenceRange(t *testing.T) {
	d := New()

	texts := []string{
		"",
		"Listening Comprehension Section A short conversations",
		"Translate the following sentences into English, using the words given in the brackets.",
		"Read the following passage and choose the one answer that fits best according to the passage.",
		"In no more than 60 words, summarize the passage above. Summary writing.",
	}
	for _, text := range texts {
		got := d.Detect(text)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Detect(%q).Confidence = %v, out of [0,1]", text, got.Confidence)
		}
	}
}

func TestDetect_LengthAdjustment(t *testing.T) {
	// Single-pattern rule so the pre-adjustment confidence is exactly the base.
	cats := []rules.Category{{
		Name: "test",
		Rules: []rules.DetectionRule{{
			Type:           types.TypeChoice,
			SubType:        "t",
			Patterns:       []*regexp.Regexp{regexp.MustCompile(`marker`)},
			BaseConfidence: 0.8,
		}},
	}}
	d := NewWithCategories(cats)

	short := d.Detect("marker")
	if want := 0.8 * 0.9; !almostEqual(short.Confidence, want) {
		t.Errorf("short text confidence = %v, want %v", short.Confidence, want)
	}

	mid := d.Detect("marker " + pad(100))
	if !almostEqual(mid.Confidence, 0.8) {
		t.Errorf("mid text confidence = %v, want 0.8", mid.Confidence)
	}

	long := d.Detect("marker " + pad(600))
	if want := 0.8 * 1.05; !almostEqual(long.Confidence, want) {
		t.Errorf("long text confidence = %v, want %v", long.Confidence, want)
	}
}

func TestDetect_TieBreakIsTableOrder(t *testing.T) {
	p := regexp.MustCompile(`marker`)
	cats := []rules.Category{{
		Name: "test",
		Rules: []rules.DetectionRule{
			{Type: types.TypeChoice, SubType: "first", Patterns: []*regexp.Regexp{p}, BaseConfidence: 0.8},
			{Type: types.TypeReading, SubType: "second", Patterns: []*regexp.Regexp{p}, BaseConfidence: 0.8},
		},
	}}
	d := NewWithCategories(cats)

	got := d.Detect("marker " + pad(100))
	if got.SubType != "first" {
		t.Errorf("tie-break picked %q, want first rule in table order", got.SubType)
	}
}

func pad(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
