// Package jsonrepair normalizes possibly-malformed completion-model output
// into parseable JSON. Repair is total: any input string, including empty
// or pure garbage, yields a string that parses, with {"questions": []} as
// the worst-case result.
package jsonrepair

import (
	"encoding/json"
	"regexp"
	"strings"
)

// EmptyQuestions is the worst-case repair output.
const EmptyQuestions = `{"questions": []}`

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z]*\\s*\n?")
	ruleLine   = regexp.MustCompile(`(?m)^\s*(?:-{3,}|\*{3,}|//[^\n]*)\s*$`)
	trailComma = regexp.MustCompile(`,\s*([}\]])`)
	// A closing quote/bracket/number followed directly by the quote of a
	// known key means a separator went missing.
	missingComma = regexp.MustCompile(`(["\]}0-9])\s*\n(\s*"(?:sequenceNumber|questionText|questionType|subType|options|answer|correctOptions|difficulty|knowledgePoint|passageId|groupId|groupType|confidence|questions)"\s*:)`)
	questionsKey = regexp.MustCompile(`"questions"\s*:`)
	objectShape  = regexp.MustCompile(`\{[^{}]*"sequenceNumber"\s*:[^{}]*\}`)
)

// Repair applies a fixed sequence of idempotent textual transforms and
// guarantees the result parses as JSON. It never fails.
func Repair(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return EmptyQuestions
	}

	s = stripFences(s)
	s = clipToObject(s)
	s = ruleLine.ReplaceAllString(s, "")
	s = trailComma.ReplaceAllString(s, "$1")
	s = missingComma.ReplaceAllString(s, "$1,\n$2")
	s = balanceQuestionsArray(s)
	s = strings.TrimSpace(s)
	if s == "" || !strings.HasSuffix(s, "}") {
		s = forceClose(s)
	}

	if json.Valid([]byte(s)) {
		if questionsKey.MatchString(s) {
			return s
		}
		// Parseable but not the expected shape. Wrap a bare array, or fall
		// through to object reconstruction.
		if strings.HasPrefix(s, "[") {
			return `{"questions": ` + s + `}`
		}
	}

	return reconstruct(s)
}

// Normalize applies the same textual transforms as Repair without
// enforcing the questions envelope. Used for model replies with other
// shapes; the result may still fail to parse when the input is beyond
// textual repair.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "{}"
	}
	s = stripFences(s)
	s = clipToObject(s)
	s = ruleLine.ReplaceAllString(s, "")
	s = trailComma.ReplaceAllString(s, "$1")
	s = missingComma.ReplaceAllString(s, "$1,\n$2")
	s = strings.TrimSpace(s)
	if s == "" || !strings.HasSuffix(s, "}") {
		s = forceClose(s)
	}
	return s
}

// stripFences removes a leading markdown code fence and its closing fence.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// clipToObject clips to the outermost {...} span when the reply wraps JSON
// in prose. A reply that is a bare array is left alone.
func clipToObject(s string) string {
	start := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	if start < 0 {
		return s
	}
	if arrStart >= 0 && arrStart < start {
		return s
	}
	end := strings.LastIndex(s, "}")
	if end > start {
		return s[start : end+1]
	}
	return s[start:]
}

// balanceQuestionsArray inserts a missing "]" for the questions array by
// walking bracket depth from the array's opening bracket.
func balanceQuestionsArray(s string) string {
	loc := questionsKey.FindStringIndex(s)
	if loc == nil {
		return s
	}
	open := strings.Index(s[loc[1]:], "[")
	if open < 0 {
		return s
	}
	depth := 0
	inString := false
	escaped := false
	for i := loc[1] + open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s
			}
		}
	}
	// Array never closed. Trim a dangling partial element back to the last
	// complete object, then close.
	trimmed := strings.TrimRight(s, " \t\n\r,")
	if i := strings.LastIndex(trimmed, "}"); i >= 0 {
		trimmed = trimmed[:i+1]
	}
	return trimmed + "]"
}

// forceClose appends closing braces for any unbalanced object depth.
func forceClose(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	s = strings.TrimRight(s, " \t\n\r,")
	for ; depth > 0; depth-- {
		s += "}"
	}
	return s
}

// reconstruct salvages individual question objects when the envelope is
// beyond textual repair.
func reconstruct(s string) string {
	objs := objectShape.FindAllString(s, -1)
	var kept []string
	for _, o := range objs {
		if json.Valid([]byte(o)) {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		return EmptyQuestions
	}
	return `{"questions": [` + strings.Join(kept, ", ") + `]}`
}
