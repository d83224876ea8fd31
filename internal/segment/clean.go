package segment

import (
	"regexp"
	"strings"
)

// optionBlock matches a run of consecutive lettered option lines starting
// at A. Word-processor exports sometimes duplicate these runs verbatim.
var optionBlock = regexp.MustCompile(`(?m)^[ \t]*A[).、．][^\n]*(?:\n[ \t]*[B-H][).、．][^\n]*)+`)

// dedupeWindow bounds how far back an identical block must appear for the
// later copy to be considered a duplicate. Blocks for different questions
// legitimately repeat across a paper; only near-adjacent exact repeats are
// removed.
const dedupeWindow = 600

// RemoveDuplicateOptionBlocks drops an option block when an identical
// normalized block ends within the lookback window before it. Conservative
// on purpose: anything not an exact normalized repeat is kept.
func RemoveDuplicateOptionBlocks(text string) string {
	locs := optionBlock.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return text
	}

	type seenBlock struct {
		norm string
		end  int
	}
	var seen []seenBlock
	var drop [][2]int

	for _, loc := range locs {
		norm := normalizeBlock(text[loc[0]:loc[1]])
		dup := false
		for _, s := range seen {
			if s.norm == norm && loc[0]-s.end <= dedupeWindow {
				dup = true
				break
			}
		}
		if dup {
			drop = append(drop, [2]int{loc[0], loc[1]})
			continue
		}
		seen = append(seen, seenBlock{norm: norm, end: loc[1]})
	}

	if len(drop) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, d := range drop {
		b.WriteString(text[prev:d[0]])
		prev = d[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

func normalizeBlock(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}
