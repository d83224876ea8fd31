// Package types provides shared types used across the pipeline packages.
// This package has no dependencies on other paperparse packages to avoid import cycles.
package types

// QuestionType tags a question with its exam category.
type QuestionType string

const (
	TypeListening   QuestionType = "LISTENING"
	TypeChoice      QuestionType = "CHOICE"
	TypeFillBlank   QuestionType = "FILL_BLANK"
	TypeReading     QuestionType = "READING"
	TypeCloze       QuestionType = "CLOZE"
	TypeTranslation QuestionType = "TRANSLATION"
	TypeWriting     QuestionType = "WRITING"
	TypeMatching    QuestionType = "MATCHING"
	TypeUnknown     QuestionType = "UNKNOWN"
)

// ParseQuestionType converts a string to a QuestionType.
// Returns TypeUnknown if the string is not recognized.
func ParseQuestionType(s string) QuestionType {
	switch QuestionType(s) {
	case TypeListening, TypeChoice, TypeFillBlank, TypeReading,
		TypeCloze, TypeTranslation, TypeWriting, TypeMatching:
		return QuestionType(s)
	default:
		return TypeUnknown
	}
}

// IsChoiceLike reports whether questions of this type carry option lists.
func (t QuestionType) IsChoiceLike() bool {
	switch t {
	case TypeChoice, TypeListening, TypeReading, TypeCloze, TypeMatching:
		return true
	default:
		return false
	}
}

// Question is one assembled exam question. Sequence numbers are assigned
// by the merge step from a single running counter; model-suggested numbers
// are parsing hints only and never survive into this struct.
type Question struct {
	SequenceNumber    int          `json:"sequence_number"`
	QuestionText      string       `json:"question_text"`
	QuestionType      QuestionType `json:"question_type"`
	Difficulty        string       `json:"difficulty,omitempty"`
	KnowledgePoint    string       `json:"knowledge_point,omitempty"`
	Options           []string     `json:"options,omitempty"`
	CorrectOptions    []string     `json:"correct_options,omitempty"`
	Answer            string       `json:"answer,omitempty"`
	PartName          string       `json:"part_name,omitempty"`
	SectionHeading    string       `json:"section_heading,omitempty"`
	SectionDirections string       `json:"section_directions,omitempty"`
	PassageID         string       `json:"passage_id,omitempty"`
	GroupID           string       `json:"group_id,omitempty"`
	GroupType         string       `json:"group_type,omitempty"`
}

// Section describes one exam part in document order.
type Section struct {
	PartName          string `json:"part_name"`
	SectionHeading    string `json:"section_heading,omitempty"`
	SectionDirections string `json:"section_directions,omitempty"`
}

// StructureStatus is the outcome of template-based structural validation.
type StructureStatus string

const (
	StructureOK    StructureStatus = "OK"
	StructureError StructureStatus = "ERROR"
)

// StructureIssue is one discrete structural violation.
type StructureIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RuleID  string `json:"rule_id,omitempty"`
}

// UsageSummary aggregates completion-model usage over one document run.
type UsageSummary struct {
	Calls            int     `json:"calls"`
	FailedCalls      int     `json:"failed_calls"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`
	TotalLatencyMs   int     `json:"total_latency_ms"`
	// ByPrompt breaks the run down per prompt key (fragment, optimize).
	// Only the top-level summary carries it.
	ByPrompt map[string]UsageSummary `json:"by_prompt,omitempty"`
}

// ParseResult is the pipeline's single output boundary object. The enclosing
// system persists it; the pipeline itself never does.
type ParseResult struct {
	Questions       []Question       `json:"questions"`
	Sections        []Section        `json:"sections"`
	Template        string           `json:"template"`
	StructureStatus StructureStatus  `json:"structure_status"`
	StructureIssues []StructureIssue `json:"structure_issues,omitempty"`
	Usage           UsageSummary     `json:"usage"`
}
