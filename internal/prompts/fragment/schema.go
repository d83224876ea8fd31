package fragment

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Question is the wire shape of one extracted question. Field names match
// what the model is instructed to emit; they are parsing hints only and
// are remapped during merging.
type Question struct {
	SequenceNumber int      `json:"sequenceNumber"`
	QuestionText   string   `json:"questionText"`
	QuestionType   string   `json:"questionType"`
	Options        []string `json:"options,omitempty"`
	CorrectOptions []string `json:"correctOptions,omitempty"`
	Answer         string   `json:"answer,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	KnowledgePoint string   `json:"knowledgePoint,omitempty"`
	PassageID      string   `json:"passageId,omitempty"`
	GroupID        string   `json:"groupId,omitempty"`
}

// Response is the full model response for one fragment.
type Response struct {
	Questions []Question `json:"questions"`
}

// responseSchemaJSON constrains the repaired model output before it is
// trusted by the merge step.
const responseSchemaJSON = `{
  "type": "object",
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "sequenceNumber": {"type": "integer"},
          "questionText": {"type": "string"},
          "questionType": {"type": "string"},
          "options": {"type": "array", "items": {"type": "string"}},
          "correctOptions": {"type": "array", "items": {"type": "string"}},
          "answer": {"type": "string"},
          "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
          "knowledgePoint": {"type": "string"},
          "passageId": {"type": "string"},
          "groupId": {"type": "string"}
        },
        "required": ["questionText"]
      }
    }
  },
  "required": ["questions"]
}`

var responseSchema = jsonschema.MustCompileString("fragment_response.json", responseSchemaJSON)

// ParseResponse validates raw JSON against the response schema and decodes
// it. raw must already be syntactically valid JSON (run it through repair
// first).
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
