// Package fragment holds the prompt and response contract for per-fragment
// question extraction.
package fragment

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to extract exam questions from one
// document fragment as structured JSON.
const SystemPrompt = `You are an exam paper analysis specialist. You will be given one section of an English exam paper, and you must extract ALL questions in it as a structured list.

For each question, extract:
- sequenceNumber: the question number as printed in the paper
- questionText: the full question text WITHOUT the number prefix and WITHOUT the option lines
- questionType: one of LISTENING, CHOICE, FILL_BLANK, READING, CLOZE, TRANSLATION, WRITING, MATCHING
- options: the lettered options in order, WITHOUT their letter prefixes (omit for non-choice questions)
- correctOptions: the letters of the correct options (e.g. ["B"]) when the paper marks them, otherwise omit
- answer: the printed answer if the paper includes one, otherwise omit
- difficulty: "easy", "medium", or "hard" judged from the question itself, otherwise omit
- knowledgePoint: the grammar or vocabulary point being tested (e.g. "past perfect tense"), otherwise omit
- passageId: for reading questions, a stable identifier shared by all questions on the same passage (e.g. "R_A_1" for the first passage of Section A)
- groupId: for listening questions introduced by "Questions X and Y are based on...", the identifier "X-Y"

**KEY PRINCIPLES**:

1. Extract every question in the section, in printed order. Do not skip short or malformed questions.
2. questionText must not contain the option lines; options carry them.
3. Blanks in cloze and fill-in questions are part of questionText; keep the underscores or numbered blank markers as printed.
4. For writing and translation tasks the whole instruction is the questionText.
5. Never invent questions, options, or answers that are not in the text.

Respond with a single JSON object: {"questions": [...]}. No prose, no markdown fences.`

// Constraints narrow what the model should extract from a fragment.
type Constraints struct {
	QuestionType string
	SubType      string
	StartNumber  int
	EndNumber    int
}

// BuildUserPrompt renders the user prompt for one fragment.
func BuildUserPrompt(partName, text string, c Constraints) string {
	var b strings.Builder

	b.WriteString("<task>\nExtract all exam questions from this section")
	if partName != "" {
		fmt.Fprintf(&b, " (%s)", partName)
	}
	b.WriteString(".\n")
	if c.QuestionType != "" {
		fmt.Fprintf(&b, "Only extract questions of type %s", c.QuestionType)
		if c.SubType != "" {
			fmt.Fprintf(&b, " (%s)", c.SubType)
		}
		b.WriteString(".\n")
	}
	if c.StartNumber > 0 && c.EndNumber >= c.StartNumber {
		fmt.Fprintf(&b, "Only extract questions %d through %d.\n", c.StartNumber, c.EndNumber)
	}
	b.WriteString("</task>\n\n<section>\n")
	b.WriteString(text)
	b.WriteString("\n</section>\n")
	return b.String()
}
