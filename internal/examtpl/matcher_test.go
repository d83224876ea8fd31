package examtpl

import (
	"strings"
	"testing"
)

const seniorGroupedPaper = `2023学年第一学期高三英语试卷

I. Listening Comprehension
Section A
Directions: In Section A, you will hear ten short conversations between two speakers.
Questions 11 and 12 are based on the following passage.
II. Grammar and Vocabulary
Section A
Directions: fill in the blanks to make the passage coherent.
IV. Summary Writing
Directions: summarize the main idea in no more than 60 words.
`

const certBasicPaper = `College English Test Band Four (CET-4)

Part I Writing
Directions: write a short essay.
Part II Listening Comprehension
Directions: you will hear eight short conversations.
Part III Reading Comprehension
`

func TestChoose(t *testing.T) {
	t.Run("senior paper with grouped listening", func(t *testing.T) {
		if got := Choose(seniorGroupedPaper, nil, 0); got != SeniorGrouped {
			t.Fatalf("Choose() = %s, want %s", got, SeniorGrouped)
		}
	})

	t.Run("senior paper without grouped listening", func(t *testing.T) {
		text := strings.Replace(seniorGroupedPaper,
			"Questions 11 and 12 are based on the following passage.\n", "", 1)
		if got := Choose(text, nil, 0); got != SeniorUngrouped {
			t.Fatalf("Choose() = %s, want %s", got, SeniorUngrouped)
		}
	})

	t.Run("certification paper", func(t *testing.T) {
		if got := Choose(certBasicPaper, nil, 0); got != CertBasic {
			t.Fatalf("Choose() = %s, want %s", got, CertBasic)
		}
	})

	t.Run("weak evidence falls back to generic", func(t *testing.T) {
		text := "Directions: answer all questions.\n\n1. What is the capital of France?\n"
		if got := Choose(text, nil, 0); got != Generic {
			t.Fatalf("Choose() = %s, want %s", got, Generic)
		}
	})

	t.Run("empty text falls back to generic", func(t *testing.T) {
		if got := Choose("", nil, 0); got != Generic {
			t.Fatalf("Choose() = %s, want %s", got, Generic)
		}
	})

	t.Run("candidate restriction applies", func(t *testing.T) {
		got := Choose(certBasicPaper, []Template{SeniorGrouped, SeniorUngrouped}, 0)
		if got != Generic {
			t.Fatalf("Choose() = %s, want %s when cert templates excluded", got, Generic)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first := Choose(seniorGroupedPaper, nil, 0)
		for i := 0; i < 5; i++ {
			if got := Choose(seniorGroupedPaper, nil, 0); got != first {
				t.Fatalf("Choose() varied across runs: %s vs %s", got, first)
			}
		}
	})
}

func TestScoreMonotonicInEvidence(t *testing.T) {
	base := "directions: answer all questions.\n"
	additions := []string{
		"高考英语试卷\n",
		"listening comprehension\ngrammar and vocabulary\n",
		"summary writing\n",
		"questions 1 and 2 are based on the following conversation.\n",
	}

	text := base
	prev := Score(SeniorGrouped, titleAreaLower(text), text)
	for _, add := range additions {
		text = add + text
		cur := Score(SeniorGrouped, titleAreaLower(text), text)
		if cur < prev {
			t.Fatalf("score decreased from %.2f to %.2f after adding %q", prev, cur, add)
		}
		prev = cur
	}
	if prev < DefaultThreshold {
		t.Fatalf("fully-evidenced paper scored %.2f, below threshold %.2f", prev, DefaultThreshold)
	}
}

func TestScoreBounds(t *testing.T) {
	texts := []string{"", seniorGroupedPaper, certBasicPaper, "random text with no exam markers"}
	for _, tmpl := range AllTemplates() {
		for _, text := range texts {
			lower := strings.ToLower(text)
			s := Score(tmpl, titleAreaLower(text), lower)
			if s < 0 || s > 1 {
				t.Fatalf("Score(%s) = %.2f for %q, want [0,1]", tmpl, s, text[:min(len(text), 30)])
			}
		}
	}
}

func titleAreaLower(text string) string {
	return strings.ToLower(titleArea(text))
}
