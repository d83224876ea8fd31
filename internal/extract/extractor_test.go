package extract

import (
	"reflect"
	"testing"

	"github.com/examtools/paperparse/internal/detect"
	"github.com/examtools/paperparse/internal/types"
)

const choiceFragment = `21. He hardly ever ____ his temper, no matter how annoying the situation becomes.
A) loses
B) lost
C) losing
D) to lose
Answer: A
（2分）`

func TestExtract_Choice(t *testing.T) {
	det := detect.Result{QuestionType: types.TypeChoice, SubType: "单项选择"}
	got := Extract(choiceFragment, det)

	if got.QuestionText == "" {
		t.Fatal("question text is empty")
	}
	wantOpts := []string{"loses", "lost", "losing", "to lose"}
	if !reflect.DeepEqual(got.Options, wantOpts) {
		t.Errorf("options = %v, want %v", got.Options, wantOpts)
	}
	if got.Answer != "A" {
		t.Errorf("answer = %q, want A", got.Answer)
	}
	if got.Metadata["score"] != "2" {
		t.Errorf("score metadata = %q, want 2", got.Metadata["score"])
	}

	// text + 4 options + answer + metadata + length band
	want := 0.3 + 0.3 + 0.2 + 0.1 + 0.1
	if !almostEqual(got.Confidence, want) {
		t.Errorf("confidence = %v, want %v", got.Confidence, want)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	det := detect.Result{QuestionType: types.TypeChoice, SubType: "单项选择"}
	a := Extract(choiceFragment, det)
	b := Extract(choiceFragment, det)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("extraction not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestExtract_GenericFallback(t *testing.T) {
	det := detect.Result{QuestionType: types.TypeUnknown, SubType: detect.UnknownSubType}
	text := "3) What color is the sky?\nA) blue\nB) green\nAnswer: A"
	got := Extract(text, det)

	if got.QuestionText != "What color is the sky?" {
		t.Errorf("question text = %q", got.QuestionText)
	}
	if len(got.Options) != 2 {
		t.Errorf("options = %v, want 2 entries", got.Options)
	}
	if got.Answer != "A" {
		t.Errorf("answer = %q, want A", got.Answer)
	}
	if got.Confidence != 0.5 {
		t.Errorf("generic confidence = %v, want 0.5", got.Confidence)
	}
}

func TestExtract_MissingFieldsLowerConfidence(t *testing.T) {
	det := detect.Result{QuestionType: types.TypeTranslation, SubType: "中译英"}
	got := Extract("1. 我们应该保护环境。(protect)", det)

	if got.QuestionText == "" {
		t.Fatal("question text is empty")
	}
	if got.Answer != "" {
		t.Errorf("answer = %q, want empty", got.Answer)
	}
	full := Extract(choiceFragment, detect.Result{QuestionType: types.TypeChoice, SubType: "单项选择"})
	if got.Confidence >= full.Confidence {
		t.Errorf("incomplete extraction confidence %v not below complete %v", got.Confidence, full.Confidence)
	}
}

func TestCompleteness_Bounds(t *testing.T) {
	cases := []struct {
		name string
		r    Result
		want float64
	}{
		{"empty", Result{}, 0.0},
		{"text only short", Result{QuestionText: "short"}, 0.3},
		{"text in length band", Result{QuestionText: "a reasonably sized question"}, 0.4},
		{"seven options", Result{Options: []string{"a", "b", "c", "d", "e", "f", "g"}}, 0.1},
		{"one option", Result{Options: []string{"a"}}, 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Completeness(&tc.r); !almostEqual(got, tc.want) {
				t.Errorf("Completeness = %v, want %v", got, tc.want)
			}
		})
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
