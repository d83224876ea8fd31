package examtpl

import (
	"regexp"
	"strings"
)

// DefaultThreshold is the minimum evidence score for a non-generic pick.
const DefaultThreshold = 0.7

// titleAreaLines bounds how many leading non-empty lines count as the
// paper's title area.
const titleAreaLines = 8

// groupedListening is the phrasing that marks shared-material listening
// groups; its presence separates the grouped senior variant from the
// ungrouped one.
var groupedListening = regexp.MustCompile(`(?i)questions?\s+\d+\s+(and|through|to)\s+\d+\s+are\s+based\s+on`)

// signal is one independent weighted evidence check.
type signal struct {
	weight float64
	// titleOnly restricts the check to the title area.
	titleOnly bool
	phrases   []string
}

var templateSignals = map[Template][]signal{
	SeniorGrouped: {
		{weight: 0.4, titleOnly: true, phrases: []string{"高考英语", "senior high school entrance", "英语试卷", "english examination"}},
		{weight: 0.3, phrases: []string{"listening comprehension||grammar and vocabulary"}},
		{weight: 0.15, phrases: []string{"summary writing||guided writing"}},
	},
	SeniorUngrouped: {
		{weight: 0.4, titleOnly: true, phrases: []string{"高考英语", "senior high school entrance", "英语试卷", "english examination"}},
		{weight: 0.3, phrases: []string{"listening comprehension||grammar and vocabulary"}},
		{weight: 0.15, phrases: []string{"summary writing||guided writing"}},
	},
	CertBasic: {
		{weight: 0.6, titleOnly: true, phrases: []string{"cet-4", "cet4", "band four", "band 4", "大学英语四级", "四级考试"}},
		{weight: 0.25, phrases: []string{"college english test"}},
		{weight: 0.2, phrases: []string{"listening||writing"}},
	},
	CertAdvanced: {
		{weight: 0.6, titleOnly: true, phrases: []string{"cet-6", "cet6", "band six", "band 6", "大学英语六级", "六级考试"}},
		{weight: 0.25, phrases: []string{"college english test"}},
		{weight: 0.2, phrases: []string{"listening||writing"}},
	},
}

// genericDirectives earn every template a small bonus; exam-style phrasing
// alone should not push any template over the threshold.
var genericDirectives = []string{"directions:", "answer sheet", "注意事项"}

// Choose scores the text against each candidate template and returns the
// best one when its score clears the threshold, otherwise Generic.
// Deterministic for fixed input; score is monotonic in matching evidence.
func Choose(text string, candidates []Template, threshold float64) Template {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(candidates) == 0 {
		candidates = AllTemplates()
	}

	lower := strings.ToLower(text)
	title := strings.ToLower(titleArea(text))

	best := Generic
	bestScore := 0.0
	for _, t := range candidates {
		s := Score(t, title, lower)
		if s > bestScore {
			best, bestScore = t, s
		}
	}

	if bestScore >= threshold {
		return best
	}
	return Generic
}

// Score computes a template's evidence score over the lowercased title
// area and full text. Exported for tests and CLI diagnostics.
func Score(t Template, lowerTitle, lowerFull string) float64 {
	score := 0.0
	for _, sig := range templateSignals[t] {
		haystack := lowerFull
		if sig.titleOnly {
			haystack = lowerTitle
		}
		if anyPhrase(haystack, sig.phrases) {
			score += sig.weight
		}
	}

	// The grouped variant needs grouped-listening phrasing; the ungrouped
	// variant is penalized by its presence so the two stay separable.
	switch t {
	case SeniorGrouped:
		if groupedListening.MatchString(lowerFull) {
			score += 0.25
		}
	case SeniorUngrouped:
		if !groupedListening.MatchString(lowerFull) {
			score += 0.25
		}
	}

	for _, d := range genericDirectives {
		if strings.Contains(lowerFull, d) {
			score += 0.05
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// anyPhrase reports whether any phrase matches. A "a||b" phrase requires
// both halves to be present (section co-occurrence evidence).
func anyPhrase(haystack string, phrases []string) bool {
	for _, p := range phrases {
		if both := strings.SplitN(p, "||", 2); len(both) == 2 {
			if strings.Contains(haystack, both[0]) && strings.Contains(haystack, both[1]) {
				return true
			}
			continue
		}
		if strings.Contains(haystack, p) {
			return true
		}
	}
	return false
}

func titleArea(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= titleAreaLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}
