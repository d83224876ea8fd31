// Package detect scores text fragments against the detection rule library
// and reports the best-matching question type.
package detect

import (
	"github.com/examtools/paperparse/internal/rules"
	"github.com/examtools/paperparse/internal/types"
)

// UnknownSubType labels fragments no rule matched.
const UnknownSubType = "未知"

// minConfidence is the floor under which candidates are discarded.
const minConfidence = 0.3

// Result is the outcome of format detection for one fragment.
type Result struct {
	QuestionType types.QuestionType `json:"question_type"`
	SubType      string             `json:"sub_type"`
	Confidence   float64            `json:"confidence"`
	Features     map[string]int     `json:"features,omitempty"`
	Rule         string             `json:"rule,omitempty"`
}

// Detector evaluates fragments against a fixed rule table. Safe for
// concurrent use; the table is read-only after construction.
type Detector struct {
	categories []rules.Category
}

// New creates a detector over the standard rule library.
func New() *Detector {
	return &Detector{categories: rules.Categories()}
}

// NewWithCategories creates a detector over a custom table. Used by tests.
func NewWithCategories(cats []rules.Category) *Detector {
	return &Detector{categories: cats}
}

// Detect returns the highest-confidence candidate for the text, or an
// UNKNOWN result with confidence 0 when no rule pattern matches. It never
// fails: garbage in, UNKNOWN out.
func (d *Detector) Detect(text string) Result {
	best := Result{
		QuestionType: types.TypeUnknown,
		SubType:      UnknownSubType,
		Confidence:   0.0,
	}
	if text == "" {
		return best
	}

	for _, cat := range d.categories {
		for _, r := range cat.Rules {
			matched := 0
			for _, p := range r.Patterns {
				if p.MatchString(text) {
					matched++
				}
			}
			if matched == 0 {
				continue
			}

			conf := r.BaseConfidence * float64(matched) / float64(len(r.Patterns))
			conf = adjustForLength(conf, len(text))
			if conf <= minConfidence {
				continue
			}

			// Strictly-greater keeps the first rule in table order on ties.
			if conf > best.Confidence {
				best = Result{
					QuestionType: r.Type,
					SubType:      r.SubType,
					Confidence:   conf,
					Features: map[string]int{
						"matched_patterns": matched,
						"total_patterns":   len(r.Patterns),
						"text_length":      len(text),
					},
					Rule: cat.Name + "/" + r.SubType,
				}
			}
		}
	}

	return best
}

// adjustForLength dampens very short fragments and slightly boosts long
// ones, clamped to 1.0.
func adjustForLength(conf float64, n int) float64 {
	switch {
	case n < 50:
		conf *= 0.9
	case n > 500:
		conf *= 1.05
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
