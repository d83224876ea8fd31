package jsonrepair

import (
	"encoding/json"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, s string) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("repair output does not parse: %v\n%s", err, s)
	}
	return v
}

func TestRepair_Total(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"not json at all",
		"{",
		"}{",
		`{"questions": [`,
		`{"questions": [{"sequenceNumber": 1, "questionText": "q"}`,
		"```json\n{\"questions\": []}\n```",
		"Sure! Here is the JSON you asked for:\n{\"questions\": []}\nHope that helps!",
		`{"questions": [{"sequenceNumber": 1,}]}`,
		"\x00\xff garbage bytes",
	}
	for _, in := range inputs {
		out := Repair(in)
		if !json.Valid([]byte(out)) {
			t.Errorf("Repair(%q) = %q, not valid JSON", in, out)
		}
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		`{"questions": [{"sequenceNumber": 1, "questionText": "q", "options": ["a", "b"]}]}`,
		"```json\n{\"questions\": [{\"sequenceNumber\": 2, \"questionText\": \"x\"}]}\n```",
		`{"questions": [{"sequenceNumber": 3, "questionText": "y"},]}`,
		"garbage with no structure",
	}
	for _, in := range inputs {
		once := Repair(in)
		twice := Repair(once)
		if !reflect.DeepEqual(mustParse(t, once), mustParse(t, twice)) {
			t.Errorf("Repair not idempotent for %q:\nonce:  %s\ntwice: %s", in, once, twice)
		}
	}
}

func TestRepair_StripsFences(t *testing.T) {
	in := "```json\n{\"questions\": [{\"sequenceNumber\": 1, \"questionText\": \"hello\"}]}\n```"
	v := mustParse(t, Repair(in))
	qs := v["questions"].([]any)
	if len(qs) != 1 {
		t.Fatalf("questions = %v, want 1 entry", qs)
	}
}

func TestRepair_ClipsSurroundingProse(t *testing.T) {
	in := "Here you go:\n{\"questions\": [{\"sequenceNumber\": 1, \"questionText\": \"q\"}]}\nLet me know!"
	v := mustParse(t, Repair(in))
	if _, ok := v["questions"]; !ok {
		t.Error("questions key missing after prose clip")
	}
}

func TestRepair_TrailingCommas(t *testing.T) {
	in := `{"questions": [{"sequenceNumber": 1, "questionText": "q",},]}`
	v := mustParse(t, Repair(in))
	qs := v["questions"].([]any)
	if len(qs) != 1 {
		t.Fatalf("questions = %v, want 1 entry", qs)
	}
}

func TestRepair_MissingComma(t *testing.T) {
	in := "{\"questions\": [{\"sequenceNumber\": 1\n\"questionText\": \"q\"}]}"
	v := mustParse(t, Repair(in))
	qs := v["questions"].([]any)
	if len(qs) != 1 {
		t.Fatalf("questions = %v, want 1 entry", qs)
	}
	q := qs[0].(map[string]any)
	if q["questionText"] != "q" {
		t.Errorf("questionText = %v, want q", q["questionText"])
	}
}

func TestRepair_UnclosedQuestionsArray(t *testing.T) {
	in := `{"questions": [{"sequenceNumber": 1, "questionText": "q"}, {"sequenceNumber": 2, "questionText": "partial`
	v := mustParse(t, Repair(in))
	qs := v["questions"].([]any)
	if len(qs) != 1 {
		t.Fatalf("questions = %v, want the single complete entry", qs)
	}
}

func TestRepair_ReconstructFromObjects(t *testing.T) {
	in := `total garbage {"sequenceNumber": 5, "questionText": "five"} more garbage {"sequenceNumber": 6, "questionText": "six"} end`
	v := mustParse(t, Repair(in))
	qs := v["questions"].([]any)
	if len(qs) != 2 {
		t.Fatalf("questions = %v, want 2 reconstructed entries", qs)
	}
	first := qs[0].(map[string]any)
	if first["sequenceNumber"].(float64) != 5 {
		t.Errorf("first sequenceNumber = %v, want 5", first["sequenceNumber"])
	}
}

func TestRepair_BareArrayWrapped(t *testing.T) {
	in := `[{"sequenceNumber": 1, "questionText": "q"}]`
	v := mustParse(t, Repair(in))
	if _, ok := v["questions"]; !ok {
		t.Error("bare array was not wrapped under questions")
	}
}

func TestRepair_WorstCase(t *testing.T) {
	v := mustParse(t, Repair("utter nonsense"))
	qs, ok := v["questions"].([]any)
	if !ok || len(qs) != 0 {
		t.Errorf("worst case = %v, want empty questions array", v)
	}
}

func TestNormalize(t *testing.T) {
	t.Run("fenced object keeps its own shape", func(t *testing.T) {
		in := "```json\n{\"questionText\": \"What?\", \"confidence\": 0.8,}\n```"
		got := Normalize(in)
		v := mustParse(t, got)
		if v["questionText"] != "What?" {
			t.Fatalf("Normalize() = %q", got)
		}
		if _, ok := v["questions"]; ok {
			t.Error("Normalize forced a questions envelope")
		}
	})

	t.Run("unclosed object is closed", func(t *testing.T) {
		got := Normalize(`{"confidence": 0.5`)
		v := mustParse(t, got)
		if v["confidence"].(float64) != 0.5 {
			t.Fatalf("Normalize() = %q", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		mustParse(t, Normalize(""))
	})
}
