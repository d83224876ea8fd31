// Package extract applies extraction rules to typed fragments and pulls out
// question text, options, answers, and metadata.
package extract

import (
	"regexp"
	"strings"

	"github.com/examtools/paperparse/internal/detect"
	"github.com/examtools/paperparse/internal/rules"
	"github.com/examtools/paperparse/internal/types"
)

// Result is the structured output for one fragment. Confidence is computed
// solely from field completeness; callers must never set it directly.
type Result struct {
	QuestionType types.QuestionType `json:"question_type"`
	SubType      string             `json:"sub_type"`
	QuestionText string             `json:"question_text"`
	Options      []string           `json:"options,omitempty"`
	Answer       string             `json:"answer,omitempty"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
	Confidence   float64            `json:"confidence"`
	Rule         string             `json:"rule,omitempty"`
}

// Confidence constants. genericConfidence is used by the no-rule fallback;
// degradedConfidence replaces the computed score when a rule panics on
// pathological input.
const (
	genericConfidence  = 0.5
	degradedConfidence = 0.3
)

// Generic fallback patterns for fragments with no registered rule.
var (
	genericQuestion = regexp.MustCompile(`(?m)^\s*(\d{1,3})\s*[.、．)]\s*(.+)$`)
	genericOptions  = regexp.MustCompile(`(?m)^\s*([A-D])\s*[).、．]\s*(.+?)\s*$`)
	genericAnswer   = regexp.MustCompile(`(?im)^\s*(?:answer|答案)\s*[:：]?\s*(.+)$`)
)

// Extract applies the extraction rule for the detected type to the text.
// Deterministic: identical (text, detection) input always yields an
// identical Result. Never returns an error; rule failures degrade the
// confidence instead.
func Extract(text string, detection detect.Result) (result Result) {
	result = Result{
		QuestionType: detection.QuestionType,
		SubType:      detection.SubType,
		Metadata:     nil,
	}

	// A panic inside a rule's regex application must not escape a single
	// fragment; degrade and keep whatever fields landed before the failure.
	defer func() {
		if r := recover(); r != nil {
			result.Confidence = degradedConfidence
		}
	}()

	rule, ok := rules.LookupExtraction(detection.QuestionType, detection.SubType)
	if !ok {
		applyGeneric(text, &result)
		result.Confidence = genericConfidence
		return result
	}

	result.Rule = rule.Key
	if rule.QuestionPattern != nil {
		result.QuestionText = captureLast(rule.QuestionPattern, text)
	}
	if rule.OptionsPattern != nil {
		result.Options = captureAll(rule.OptionsPattern, text)
	}
	if rule.AnswerPattern != nil {
		result.Answer = captureLast(rule.AnswerPattern, text)
	}
	if rule.MetadataPattern != nil {
		if v := captureLast(rule.MetadataPattern, text); v != "" {
			result.Metadata = map[string]string{rule.MetadataKey: v}
		}
	}

	result.Confidence = Completeness(&result)
	return result
}

// Completeness scores a result from field presence alone, clamped to 1.0.
func Completeness(r *Result) float64 {
	conf := 0.0
	if strings.TrimSpace(r.QuestionText) != "" {
		conf += 0.3
	}
	switch n := len(r.Options); {
	case n >= 2 && n <= 6:
		conf += 0.3
	case n == 1 || n > 6:
		conf += 0.1
	}
	if strings.TrimSpace(r.Answer) != "" {
		conf += 0.2
	}
	if len(r.Metadata) > 0 {
		conf += 0.1
	}
	if n := len(r.QuestionText); n >= 10 && n <= 500 {
		conf += 0.1
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// captureLast runs the pattern and returns the last non-empty capture group
// of the first match, or the whole match when the pattern has no groups.
func captureLast(p *regexp.Regexp, text string) string {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for i := len(m) - 1; i >= 1; i-- {
		if s := strings.TrimSpace(m[i]); s != "" {
			return s
		}
	}
	return strings.TrimSpace(m[0])
}

// captureAll collects the last capture group of every match, in order.
func captureAll(p *regexp.Regexp, text string) []string {
	ms := p.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		v := m[len(m)-1]
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func applyGeneric(text string, r *Result) {
	if m := genericQuestion.FindStringSubmatch(text); m != nil {
		r.QuestionText = strings.TrimSpace(m[2])
	}
	r.Options = captureAll(genericOptions, text)
	if m := genericAnswer.FindStringSubmatch(text); m != nil {
		r.Answer = strings.TrimSpace(m[1])
	}
}
