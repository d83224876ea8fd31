package examtpl

import "github.com/examtools/paperparse/internal/types"

// seniorRules describes the nine sections of a senior exam paper. The
// grouped and ungrouped variants share the same section layout; grouping
// only changes listening validation, not counts.
func seniorRules(t Template) []StructureRule {
	return []StructureRule{
		{
			ID: "listening_a", Template: t, OrderInExam: 1,
			MinQuestionCount: 7, MaxQuestionCount: 10,
			AllowedTypes:        []types.QuestionType{types.TypeListening},
			SectionKeywords:     []string{"Listening Comprehension", "Section A"},
			InstructionKeywords: []string{"short conversations", "two speakers"},
		},
		{
			ID: "listening_b", Template: t, OrderInExam: 2,
			MinQuestionCount: 6, MaxQuestionCount: 10,
			AllowedTypes:        []types.QuestionType{types.TypeListening},
			SectionKeywords:     []string{"Listening Comprehension", "Section B"},
			InstructionKeywords: []string{"passages", "longer conversation"},
		},
		{
			ID: "grammar", Template: t, OrderInExam: 3,
			MinQuestionCount: 8, MaxQuestionCount: 10,
			AllowedTypes:        []types.QuestionType{types.TypeFillBlank, types.TypeChoice},
			SectionKeywords:     []string{"Grammar and Vocabulary", "Section A"},
			InstructionKeywords: []string{"fill in the blanks", "coherent"},
		},
		{
			ID: "vocabulary", Template: t, OrderInExam: 4,
			MinQuestionCount: 8, MaxQuestionCount: 10,
			AllowedTypes:        []types.QuestionType{types.TypeFillBlank, types.TypeChoice, types.TypeMatching},
			SectionKeywords:     []string{"Grammar and Vocabulary", "Section B"},
			InstructionKeywords: []string{"word bank", "can only be used once"},
		},
		{
			ID: "reading_cloze", Template: t, OrderInExam: 5,
			MinQuestionCount: 10, MaxQuestionCount: 15,
			AllowedTypes:        []types.QuestionType{types.TypeCloze, types.TypeChoice, types.TypeReading},
			SectionKeywords:     []string{"Reading Comprehension", "Section A"},
			InstructionKeywords: []string{"for each blank", "words or phrases marked"},
		},
		{
			ID: "reading_passages", Template: t, OrderInExam: 6,
			MinQuestionCount: 8, MaxQuestionCount: 15,
			AllowedTypes:        []types.QuestionType{types.TypeReading, types.TypeChoice, types.TypeMatching},
			SectionKeywords:     []string{"Reading Comprehension", "Section B", "Section C"},
			InstructionKeywords: []string{"read the following", "choose the one that fits best"},
		},
		{
			ID: "summary", Template: t, OrderInExam: 7,
			MinQuestionCount: 1, MaxQuestionCount: 1,
			AllowedTypes:        []types.QuestionType{types.TypeWriting},
			SectionKeywords:     []string{"Summary Writing"},
			InstructionKeywords: []string{"summarize", "no more than"},
		},
		{
			ID: "translation", Template: t, OrderInExam: 8,
			MinQuestionCount: 1, MaxQuestionCount: 3,
			AllowedTypes:        []types.QuestionType{types.TypeTranslation},
			SectionKeywords:     []string{"Translation"},
			InstructionKeywords: []string{"translate", "into English"},
		},
		{
			ID: "guided_writing", Template: t, OrderInExam: 9,
			MinQuestionCount: 1, MaxQuestionCount: 1,
			AllowedTypes:        []types.QuestionType{types.TypeWriting},
			SectionKeywords:     []string{"Guided Writing"},
			InstructionKeywords: []string{"write an English composition", "words"},
		},
	}
}

// certRules describes the four coarse sections of a certification exam.
// Certification validation counts by declared question type, not partName.
func certRules(t Template) []StructureRule {
	listeningMax, readingMax := 25, 35
	if t == CertAdvanced {
		listeningMax, readingMax = 30, 40
	}
	return []StructureRule{
		{
			ID: "cert_listening", Template: t, OrderInExam: 1,
			MinQuestionCount: 10, MaxQuestionCount: listeningMax,
			AllowedTypes:        []types.QuestionType{types.TypeListening},
			SectionKeywords:     []string{"Listening"},
			InstructionKeywords: []string{"you will hear"},
		},
		{
			ID: "cert_reading", Template: t, OrderInExam: 2,
			MinQuestionCount: 10, MaxQuestionCount: readingMax,
			AllowedTypes:        []types.QuestionType{types.TypeReading, types.TypeCloze, types.TypeChoice, types.TypeFillBlank, types.TypeMatching},
			SectionKeywords:     []string{"Reading"},
			InstructionKeywords: []string{"passage"},
		},
		{
			ID: "cert_translation", Template: t, OrderInExam: 3,
			MinQuestionCount: 1, MaxQuestionCount: 5,
			AllowedTypes:        []types.QuestionType{types.TypeTranslation},
			SectionKeywords:     []string{"Translation"},
			InstructionKeywords: []string{"translate"},
		},
		{
			ID: "cert_writing", Template: t, OrderInExam: 4,
			MinQuestionCount: 1, MaxQuestionCount: 2,
			AllowedTypes:        []types.QuestionType{types.TypeWriting},
			SectionKeywords:     []string{"Writing"},
			InstructionKeywords: []string{"composition", "essay"},
		},
	}
}

var registry = map[Template][]StructureRule{
	SeniorGrouped:   seniorRules(SeniorGrouped),
	SeniorUngrouped: seniorRules(SeniorUngrouped),
	CertBasic:       certRules(CertBasic),
	CertAdvanced:    certRules(CertAdvanced),
	Generic:         nil,
}

// RulesFor returns the ordered structure rules for a template. Generic has
// none; its validation is per-question sanity checking only.
func RulesFor(t Template) []StructureRule {
	return registry[t]
}

// RuleByID finds one rule of a template by id.
func RuleByID(t Template, id string) (StructureRule, bool) {
	for _, r := range registry[t] {
		if r.ID == id {
			return r, true
		}
	}
	return StructureRule{}, false
}
