// Package optimize holds the prompt and response contract for improving a
// low-confidence structural extraction.
package optimize

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SystemPrompt instructs the model to refine one question extraction.
const SystemPrompt = `You are an exam question extraction reviewer. You will be given a raw text fragment from an exam paper and a structured extraction of it that scored low confidence. Improve the extraction using ONLY what the fragment contains.

Rules:
1. Fix the question text if it is truncated, merged with option lines, or missing.
2. Complete the option list if options are visible in the fragment but missing from the extraction.
3. Fill in the answer only if the fragment prints one.
4. Keep the questionType unless the fragment clearly contradicts it.
5. Report your own confidence in the corrected extraction as a number between 0 and 1. Be honest; a low score is more useful than a wrong extraction.

Respond with a single JSON object:
{"questionType": "...", "questionText": "...", "options": [...], "answer": "...", "confidence": 0.0}
No prose, no markdown fences.`

// Current is the extraction being reviewed, as shown to the model.
type Current struct {
	QuestionType string   `json:"questionType"`
	SubType      string   `json:"subType,omitempty"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// Response is the model's corrected extraction.
type Response struct {
	QuestionType string   `json:"questionType"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// BuildUserPrompt renders the review request for one fragment.
func BuildUserPrompt(fragmentText string, current Current) string {
	cur, _ := json.MarshalIndent(current, "", "  ")
	return fmt.Sprintf(`<fragment>
%s
</fragment>

<current_extraction>
%s
</current_extraction>

Improve the extraction above.`, fragmentText, cur)
}

const responseSchemaJSON = `{
  "type": "object",
  "properties": {
    "questionType": {"type": "string"},
    "questionText": {"type": "string"},
    "options": {"type": "array", "items": {"type": "string"}},
    "answer": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["questionText", "confidence"]
}`

var responseSchema = jsonschema.MustCompileString("optimize_response.json", responseSchemaJSON)

// ParseResponse validates and decodes the model's corrected extraction.
func ParseResponse(raw string) (*Response, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	if err := responseSchema.Validate(v); err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
