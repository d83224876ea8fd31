// Package examtpl holds the fixed exam template catalogue: the template
// enum, each template's structural rules, and the evidence-based matcher
// that picks a template for a raw paper.
package examtpl

import "github.com/examtools/paperparse/internal/types"

// Template classifies an exam paper. Pure tag, no lifecycle.
type Template string

const (
	// SeniorGrouped is the senior-exam paper variant whose listening section
	// binds runs of questions to shared audio material.
	SeniorGrouped Template = "SENIOR_GROUPED"
	// SeniorUngrouped is the senior-exam variant without shared-material
	// listening groups.
	SeniorUngrouped Template = "SENIOR_UNGROUPED"
	// CertBasic is the basic certification exam (four coarse sections).
	CertBasic Template = "CERT_BASIC"
	// CertAdvanced is the advanced certification exam.
	CertAdvanced Template = "CERT_ADVANCED"
	// Generic is the fallback when no template matches with confidence.
	Generic Template = "GENERIC"
)

// AllTemplates lists every non-generic template in matcher order.
func AllTemplates() []Template {
	return []Template{SeniorGrouped, SeniorUngrouped, CertBasic, CertAdvanced}
}

// IsSenior reports whether t is a senior-exam template.
func (t Template) IsSenior() bool {
	return t == SeniorGrouped || t == SeniorUngrouped
}

// IsCert reports whether t is a certification template.
func (t Template) IsCert() bool {
	return t == CertBasic || t == CertAdvanced
}

// StructureRule constrains one expected section of a template: how many
// questions it should hold and which types are allowed there. Registered
// statically at process start; read-only thereafter.
type StructureRule struct {
	ID                  string
	Template            Template
	OrderInExam         int
	MinQuestionCount    int // 0 means no lower bound
	MaxQuestionCount    int // 0 means no upper bound
	AllowedTypes        []types.QuestionType
	SectionKeywords     []string
	InstructionKeywords []string
}

// Allows reports whether qt is an allowed type for this rule's section.
func (r StructureRule) Allows(qt types.QuestionType) bool {
	for _, t := range r.AllowedTypes {
		if t == qt {
			return true
		}
	}
	return false
}
