// Package validate checks an assembled question list against the
// structural rules of its selected template. It reports every violation
// it finds and never mutates the input.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/examtools/paperparse/internal/examtpl"
	"github.com/examtools/paperparse/internal/types"
)

// Issue codes.
const (
	CodeEmptyQuestionText  = "EMPTY_QUESTION_TEXT"
	CodeMissingType        = "MISSING_QUESTION_TYPE"
	CodeTooFewOptions      = "TOO_FEW_OPTIONS"
	CodeTotalOutOfRange    = "TOTAL_COUNT_OUT_OF_RANGE"
	CodeSectionOutOfRange  = "SECTION_COUNT_OUT_OF_RANGE"
	CodePassageMissingID   = "READING_PASSAGE_MISSING_ID"
	CodePassageDistSuspect = "READING_PASSAGE_DISTRIBUTION_SUSPECT"
	CodeGroupEmpty         = "LISTENING_GROUP_EMPTY"
	CodeGroupOutOfRange    = "LISTENING_GROUP_OUT_OF_RANGE"
)

// Loose bounds applied when no template rules constrain the document.
const (
	genericMinTotal = 1
	genericMaxTotal = 1000
)

// Outcome is the validator's result: a status plus every discrete issue
// found. Status is ERROR exactly when the issue list is non-empty.
type Outcome struct {
	Status types.StructureStatus
	Issues []types.StructureIssue
}

func outcome(issues []types.StructureIssue) Outcome {
	status := types.StructureOK
	if len(issues) > 0 {
		status = types.StructureError
	}
	return Outcome{Status: status, Issues: issues}
}

// Validate checks questions against the template's structure rules. All
// checks are additive; every violation is reported, not just the first.
func Validate(questions []types.Question, tmpl examtpl.Template) Outcome {
	switch {
	case tmpl.IsSenior():
		return outcome(validateSenior(questions, tmpl))
	case tmpl.IsCert():
		return outcome(validateCert(questions, tmpl))
	default:
		return outcome(validateGeneric(questions))
	}
}

// validateGeneric runs per-question sanity checks plus a loose bound on
// the document total.
func validateGeneric(questions []types.Question) []types.StructureIssue {
	var issues []types.StructureIssue
	for _, q := range questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			issues = append(issues, types.StructureIssue{
				Code:    CodeEmptyQuestionText,
				Message: fmt.Sprintf("question %d has no text", q.SequenceNumber),
			})
		}
		if q.QuestionType == "" {
			issues = append(issues, types.StructureIssue{
				Code:    CodeMissingType,
				Message: fmt.Sprintf("question %d has no type", q.SequenceNumber),
			})
		} else if q.QuestionType.IsChoiceLike() && len(q.Options) < 2 {
			issues = append(issues, types.StructureIssue{
				Code: CodeTooFewOptions,
				Message: fmt.Sprintf("question %d is %s but has %d options",
					q.SequenceNumber, q.QuestionType, len(q.Options)),
			})
		}
	}
	if n := len(questions); n < genericMinTotal || n > genericMaxTotal {
		issues = append(issues, types.StructureIssue{
			Code: CodeTotalOutOfRange,
			Message: fmt.Sprintf("document has %d questions, expected %d to %d",
				n, genericMinTotal, genericMaxTotal),
		})
	}
	return issues
}

// validateCert counts questions by declared type against each coarse
// section rule.
func validateCert(questions []types.Question, tmpl examtpl.Template) []types.StructureIssue {
	var issues []types.StructureIssue
	for _, r := range examtpl.RulesFor(tmpl) {
		count := 0
		for _, q := range questions {
			if r.Allows(q.QuestionType) {
				count++
			}
		}
		issues = appendCountIssue(issues, r, count)
	}
	return issues
}

// seniorSections maps rule ids to the partName values that feed them.
// Grammar and reading are aggregated across their two sub-rules each.
var seniorSections = []struct {
	ruleIDs   []string
	partNames []string
}{
	{[]string{"listening_a"}, []string{"Listening_A"}},
	{[]string{"listening_b"}, []string{"Listening_B"}},
	{[]string{"grammar", "vocabulary"}, []string{"Grammar"}},
	{[]string{"reading_cloze", "reading_passages"}, []string{"Reading"}},
	{[]string{"summary"}, []string{"Writing_Summary"}},
	{[]string{"translation"}, []string{"Writing_Translation"}},
	{[]string{"guided_writing"}, []string{"Writing_Guided"}},
}

func validateSenior(questions []types.Question, tmpl examtpl.Template) []types.StructureIssue {
	var issues []types.StructureIssue
	rules := examtpl.RulesFor(tmpl)

	// Global total against the sum of all section bounds.
	minTotal, maxTotal := 0, 0
	for _, r := range rules {
		minTotal += r.MinQuestionCount
		maxTotal += r.MaxQuestionCount
	}
	if n := len(questions); n < minTotal || n > maxTotal {
		issues = append(issues, types.StructureIssue{
			Code: CodeTotalOutOfRange,
			Message: fmt.Sprintf("document has %d questions, expected %d to %d",
				n, minTotal, maxTotal),
		})
	}

	byPart := map[string]int{}
	for _, q := range questions {
		byPart[basePartName(q.PartName)]++
	}

	for _, sec := range seniorSections {
		min, max := 0, 0
		for _, id := range sec.ruleIDs {
			r, ok := examtpl.RuleByID(tmpl, id)
			if !ok {
				continue
			}
			min += r.MinQuestionCount
			max += r.MaxQuestionCount
		}
		count := 0
		for _, p := range sec.partNames {
			count += byPart[p]
		}
		if count < min || (max > 0 && count > max) {
			issues = append(issues, types.StructureIssue{
				Code:   CodeSectionOutOfRange,
				RuleID: sec.ruleIDs[0],
				Message: fmt.Sprintf("%s has %d questions, expected %d to %d",
					strings.Join(sec.partNames, "/"), count, min, max),
			})
		}
	}

	issues = append(issues, checkPassages(questions)...)
	return issues
}

func appendCountIssue(issues []types.StructureIssue, r examtpl.StructureRule, count int) []types.StructureIssue {
	if count < r.MinQuestionCount || (r.MaxQuestionCount > 0 && count > r.MaxQuestionCount) {
		issues = append(issues, types.StructureIssue{
			Code:   CodeSectionOutOfRange,
			RuleID: r.ID,
			Message: fmt.Sprintf("section %s has %d questions, expected %d to %d",
				r.ID, count, r.MinQuestionCount, r.MaxQuestionCount),
		})
	}
	return issues
}

// basePartName strips the numeric suffix added when an oversized part is
// split, so Reading_2 counts toward Reading.
func basePartName(name string) string {
	if i := strings.LastIndex(name, "_"); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			return name[:i]
		}
	}
	return name
}

// span is the sequence-number range covered by one passageId.
type span struct {
	id         string
	start, end int
}

// checkPassages enforces reading passage consistency: every READING
// question carries a passageId, and the sequence spans of distinct
// passages never partially interleave. Fully nested spans are tolerated.
// Overlap is tested pairwise only, not transitively.
func checkPassages(questions []types.Question) []types.StructureIssue {
	var issues []types.StructureIssue
	bySeq := map[string]*span{}
	var order []string
	for _, q := range questions {
		if q.QuestionType != types.TypeReading {
			continue
		}
		if strings.TrimSpace(q.PassageID) == "" {
			issues = append(issues, types.StructureIssue{
				Code:    CodePassageMissingID,
				Message: fmt.Sprintf("reading question %d has no passage id", q.SequenceNumber),
			})
			continue
		}
		s, ok := bySeq[q.PassageID]
		if !ok {
			s = &span{id: q.PassageID, start: q.SequenceNumber, end: q.SequenceNumber}
			bySeq[q.PassageID] = s
			order = append(order, q.PassageID)
			continue
		}
		if q.SequenceNumber < s.start {
			s.start = q.SequenceNumber
		}
		if q.SequenceNumber > s.end {
			s.end = q.SequenceNumber
		}
	}

	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := bySeq[order[i]], bySeq[order[j]]
			if partialOverlap(a, b) {
				issues = append(issues, types.StructureIssue{
					Code: CodePassageDistSuspect,
					Message: fmt.Sprintf("passages %s (%d-%d) and %s (%d-%d) interleave",
						a.id, a.start, a.end, b.id, b.start, b.end),
				})
			}
		}
	}
	return issues
}

// partialOverlap reports whether two spans overlap without one fully
// containing the other.
func partialOverlap(a, b *span) bool {
	if a.end < b.start || b.end < a.start {
		return false
	}
	if a.start <= b.start && b.end <= a.end {
		return false
	}
	if b.start <= a.start && a.end <= b.end {
		return false
	}
	return true
}

// ListeningGroup is one shared-material run of listening questions
// declared by the paper's own phrasing.
type ListeningGroup struct {
	ID    string
	Start int
	End   int
}

var groupDecl = regexp.MustCompile(`(?i)questions?\s+(\d+)\s+(?:and|through|to)\s+(\d+)\s+are\s+based\s+on`)

// ParseListeningGroups extracts shared-material group declarations from
// raw section text.
func ParseListeningGroups(text string) []ListeningGroup {
	var groups []ListeningGroup
	for _, m := range groupDecl.FindAllStringSubmatch(text, -1) {
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || end < start {
			continue
		}
		groups = append(groups, ListeningGroup{
			ID:    m[1] + "-" + m[2],
			Start: start,
			End:   end,
		})
	}
	return groups
}

// ValidateListeningGroups layers shared-material group checks onto a base
// outcome: each declared group must bind at least one question, and every
// bound question's sequence number must fall inside the declared range.
func ValidateListeningGroups(questions []types.Question, groups []ListeningGroup) []types.StructureIssue {
	var issues []types.StructureIssue
	for _, g := range groups {
		bound := 0
		for _, q := range questions {
			if q.GroupID != g.ID {
				continue
			}
			bound++
			if q.SequenceNumber < g.Start || q.SequenceNumber > g.End {
				issues = append(issues, types.StructureIssue{
					Code: CodeGroupOutOfRange,
					Message: fmt.Sprintf("question %d bound to group %s is outside %d-%d",
						q.SequenceNumber, g.ID, g.Start, g.End),
				})
			}
		}
		if bound == 0 {
			issues = append(issues, types.StructureIssue{
				Code:    CodeGroupEmpty,
				Message: fmt.Sprintf("listening group %s (%d-%d) has no bound questions", g.ID, g.Start, g.End),
			})
		}
	}
	return issues
}

// Merge folds extra issues into a base outcome, recomputing the status.
func Merge(base Outcome, extra []types.StructureIssue) Outcome {
	if len(extra) == 0 {
		return base
	}
	return outcome(append(append([]types.StructureIssue{}, base.Issues...), extra...))
}
