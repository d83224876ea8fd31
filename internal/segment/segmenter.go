// Package segment splits raw exam-paper text into ordered part fragments.
// Segmentation is a pure function of the input text: absent structure
// degrades to a size-bounded fallback split instead of erroring.
package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultBudget is the hard character budget per fragment. Fragments over
// budget are split on paragraph, then sentence boundaries; only a single
// unsplittable sentence may exceed it.
const DefaultBudget = 8000

// Fragment is one contiguous slice of the source document. Immutable once
// produced.
type Fragment struct {
	PartName   string `json:"part_name"`
	Text       string `json:"text"`
	Heading    string `json:"heading,omitempty"`
	Directions string `json:"directions,omitempty"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// anchor locates the start of one coarse exam part. Patterns are tried in
// order; the first match wins.
type anchor struct {
	part     string
	patterns []*regexp.Regexp
}

// Coarse part anchors in exam order. The first pattern per part is the
// flexible "<Roman>. <Label>" form; the rest are literal tab/space variants.
var coarseAnchors = []anchor{
	{
		part: "Listening",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*Listening(\s+Comprehension)?\b`),
			regexp.MustCompile(`(?m)^[ \t]*Listening Comprehension`),
			regexp.MustCompile(`(?m)^[ \t]*听力(理解|部分)?`),
		},
	},
	{
		part: "Grammar",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*Grammar(\s+and\s+Vocabulary)?\b`),
			regexp.MustCompile(`(?m)^[ \t]*Grammar and Vocabulary`),
			regexp.MustCompile(`(?m)^[ \t]*Grammar\b`),
			regexp.MustCompile(`(?m)^[ \t]*语法(与词汇)?`),
		},
	},
	{
		part: "Reading",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*Reading(\s+Comprehension)?\b`),
			regexp.MustCompile(`(?m)^[ \t]*Reading Comprehension`),
			regexp.MustCompile(`(?m)^[ \t]*阅读(理解|部分)?`),
		},
	},
	{
		part: "Writing",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*(Summary\s+Writing|Translation|Guided\s+Writing|Writing)\b`),
			regexp.MustCompile(`(?m)^[ \t]*(Summary Writing|Guided Writing|Writing)\b`),
			regexp.MustCompile(`(?m)^[ \t]*(写作|翻译|书面表达)`),
		},
	},
}

// Writing-family sub-anchors, located inside the Writing coarse part.
var writingAnchors = []anchor{
	{part: "Writing_Summary", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*Summary\s+Writing\b`),
		regexp.MustCompile(`(?m)^[ \t]*Summary Writing`),
		regexp.MustCompile(`(?m)^[ \t]*概要写作`),
	}},
	{part: "Writing_Translation", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*Translation\b`),
		regexp.MustCompile(`(?m)^[ \t]*Translation\b`),
		regexp.MustCompile(`(?m)^[ \t]*翻译`),
	}},
	{part: "Writing_Guided", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^\s*[IVX]+\s*[.、．]\s*Guided\s+Writing\b`),
		regexp.MustCompile(`(?m)^[ \t]*Guided Writing`),
		regexp.MustCompile(`(?m)^[ \t]*指导性写作`),
	}},
}

var (
	listeningSection = regexp.MustCompile(`(?m)^[ \t]*Section\s+([ABC])\b`)
	romanLine        = regexp.MustCompile(`(?m)^\s*[IVXLC]+\s*[.、．]\s*\S.*$`)
	directionsLine   = regexp.MustCompile(`(?i)^\s*Directions?\s*[:：]\s*(.*)$`)
	blankLineSplit   = regexp.MustCompile(`\n[ \t]*\n`)
	sentenceEnd      = regexp.MustCompile(`[.!?。！？](\s|$)`)
)

type located struct {
	part  string
	start int
}

// Segment splits fullText into ordered fragments, one per located exam
// part. Listening is sub-split on "Section A/B/C"; the trailing writing
// family is sub-split on its own anchors. When no anchor matches at all,
// the text falls back to a Roman-numeral line split with keyword
// classification, and finally to a single content chunk. Every output
// fragment respects the size budget.
func Segment(fullText string) []Fragment {
	return SegmentWithBudget(fullText, DefaultBudget)
}

// SegmentWithBudget is Segment with an explicit character budget.
func SegmentWithBudget(fullText string, budget int) []Fragment {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if strings.TrimSpace(fullText) == "" {
		return nil
	}

	parts := locateParts(fullText)
	if len(parts) == 0 {
		return sizeBound(fallbackSplit(fullText), budget)
	}

	var frags []Fragment
	for i, p := range parts {
		end := len(fullText)
		if i+1 < len(parts) {
			end = parts[i+1].start
		}
		body := fullText[p.start:end]

		switch p.part {
		case "Listening":
			frags = append(frags, splitListening(body, p.start)...)
		case "Writing":
			frags = append(frags, splitWriting(body, p.start)...)
		default:
			frags = append(frags, newFragment(p.part, body, p.start))
		}
	}

	return sizeBound(frags, budget)
}

// locateParts finds each coarse anchor's first match and returns the parts
// sorted by offset. Parts whose anchors never match are simply absent.
func locateParts(text string) []located {
	var parts []located
	for _, a := range coarseAnchors {
		for _, p := range a.patterns {
			if loc := p.FindStringIndex(text); loc != nil {
				parts = append(parts, located{part: a.part, start: loc[0]})
				break
			}
		}
	}
	// Anchors are declared in exam order but documents are not always laid
	// out that way; offset order is authoritative.
	for i := 1; i < len(parts); i++ {
		for j := i; j > 0 && parts[j].start < parts[j-1].start; j-- {
			parts[j], parts[j-1] = parts[j-1], parts[j]
		}
	}
	return parts
}

func splitListening(body string, base int) []Fragment {
	marks := listeningSection.FindAllStringSubmatchIndex(body, -1)
	if len(marks) == 0 {
		return []Fragment{newFragment("Listening", body, base)}
	}

	var frags []Fragment
	// Text before the first Section marker stays with Section A's fragment:
	// it is the part heading and shared directions.
	for i, m := range marks {
		start := 0
		if i > 0 {
			start = m[0]
		}
		end := len(body)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		letter := body[m[2]:m[3]]
		frags = append(frags, newFragment("Listening_"+letter, body[start:end], base+start))
	}
	return frags
}

func splitWriting(body string, base int) []Fragment {
	type sub struct {
		part  string
		start int
	}
	var subs []sub
	for _, a := range writingAnchors {
		for _, p := range a.patterns {
			if loc := p.FindStringIndex(body); loc != nil {
				subs = append(subs, sub{part: a.part, start: loc[0]})
				break
			}
		}
	}
	if len(subs) == 0 {
		return []Fragment{newFragment("Writing", body, base)}
	}
	for i := 1; i < len(subs); i++ {
		for j := i; j > 0 && subs[j].start < subs[j-1].start; j-- {
			subs[j], subs[j-1] = subs[j-1], subs[j]
		}
	}

	var frags []Fragment
	for i, s := range subs {
		end := len(body)
		if i+1 < len(subs) {
			end = subs[i+1].start
		}
		frags = append(frags, newFragment(s.part, body[s.start:end], base+s.start))
	}
	return frags
}

// fallbackSplit handles documents without any coarse anchor: split on
// generic Roman-numeral lines and classify each chunk by keyword; a
// document without even those becomes a single Content chunk.
func fallbackSplit(text string) []Fragment {
	marks := romanLine.FindAllStringIndex(text, -1)
	if len(marks) == 0 {
		return []Fragment{newFragment("Content", text, 0)}
	}

	var frags []Fragment
	for i, m := range marks {
		start := m[0]
		if i == 0 && start > 0 {
			// Preamble before the first marker.
			frags = append(frags, newFragment(classifyChunk(text[:start]), text[:start], 0))
		}
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		chunk := text[start:end]
		frags = append(frags, newFragment(classifyChunk(chunk), chunk, start))
	}
	return frags
}

func classifyChunk(chunk string) string {
	lower := strings.ToLower(chunk)
	switch {
	case strings.Contains(lower, "listening") || strings.Contains(chunk, "听力"):
		return "Listening"
	case strings.Contains(lower, "grammar") || strings.Contains(chunk, "语法"):
		return "Grammar"
	case strings.Contains(lower, "reading") || strings.Contains(chunk, "阅读"):
		return "Reading"
	default:
		return "Writing"
	}
}

// newFragment builds a fragment and parses its section metadata once.
func newFragment(part, text string, start int) Fragment {
	f := Fragment{
		PartName: part,
		Text:     text,
		Start:    start,
		End:      start + len(text),
	}
	f.Heading, f.Directions = parseSectionMeta(text)
	return f
}

// parseSectionMeta pulls the heading (first non-empty line) and a
// Directions line from the top of a fragment.
func parseSectionMeta(text string) (heading, directions string) {
	lines := strings.Split(text, "\n")
	seen := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		seen++
		if seen > 6 {
			break
		}
		if m := directionsLine.FindStringSubmatch(trimmed); m != nil {
			directions = strings.TrimSpace(m[1])
			continue
		}
		if heading == "" {
			heading = trimmed
		}
	}
	return heading, directions
}

// sizeBound enforces the character budget, splitting oversized fragments on
// paragraph then sentence boundaries. Split parts keep the original
// partName with an ordinal suffix so downstream merge still groups them.
func sizeBound(frags []Fragment, budget int) []Fragment {
	var out []Fragment
	for _, f := range frags {
		if len(f.Text) <= budget {
			out = append(out, f)
			continue
		}
		pieces := splitToBudget(f.Text, budget)
		for i, piece := range pieces {
			nf := f
			nf.Text = piece
			if i > 0 {
				nf.PartName = f.PartName + "_" + strconv.Itoa(i+1)
				nf.Start = -1 // offsets are meaningless after a re-split
				nf.End = -1
			} else {
				nf.End = nf.Start + len(piece)
			}
			out = append(out, nf)
		}
	}
	return out
}

func splitToBudget(text string, budget int) []string {
	paras := blankLineSplit.Split(text, -1)
	var pieces []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
		}
	}

	for _, para := range paras {
		if len(para) > budget {
			flush()
			pieces = append(pieces, splitSentences(para, budget)...)
			continue
		}
		if current.Len() > 0 && current.Len()+len(para)+2 > budget {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()
	return pieces
}

// splitSentences packs sentences into budget-sized pieces. A single
// sentence longer than the budget is emitted whole; it is the only case
// where a piece may exceed the budget.
func splitSentences(text string, budget int) []string {
	ends := sentenceEnd.FindAllStringIndex(text, -1)
	var pieces []string
	var current strings.Builder
	prev := 0

	emit := func(s string) {
		if current.Len() > 0 && current.Len()+len(s) > budget {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		current.WriteString(s)
	}

	for _, e := range ends {
		emit(text[prev:e[1]])
		prev = e[1]
	}
	if prev < len(text) {
		emit(text[prev:])
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

