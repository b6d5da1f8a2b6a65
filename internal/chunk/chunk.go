package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Segment struct {
	Index int
	Start int
	End   int
	Text  string
}

// Separators are tried as one alternation; at a given position the first
// listed separator that matches wins.
var Separators = []string{
	`\s+และ\s+`,
	`\s+แล้ว\s+`,
	`\s+แล้วก็\s+`,
	`\s+พร้อม\s+`,
	`\s+,\s*และ\s+`,
	`\s+;\s*`,
	`\s+/\s+`,
	`\s*,\s+`,
	`\s+and\s+`,
	`\s+then\s+`,
}

// commaSeparator only splits when enough text follows it, so short
// enumerations ("ก, ข") stay in one clause.
const (
	commaSeparator = 7
	minCommaTail   = 10
)

var separatorPattern = compile(Separators)

func compile(seps []string) *regexp.Regexp {
	groups := make([]string, len(seps))
	for i, s := range seps {
		groups[i] = "(" + s + ")"
	}
	return regexp.MustCompile(`(?i)` + strings.Join(groups, "|"))
}

// SplitBySeparators never returns an empty slice: when nothing splits, the
// input comes back as the only element.
func SplitBySeparators(text string) []string {
	segs := Segments(text)
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func Segments(text string) []Segment {
	var segments []Segment
	emit := func(start, end int) {
		piece := text[start:end]
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			return
		}
		lead := strings.Index(piece, trimmed)
		segments = append(segments, Segment{
			Index: len(segments),
			Start: start + lead,
			End:   start + lead + len(trimmed),
			Text:  trimmed,
		})
	}

	last := 0
	for pos := 0; pos < len(text); {
		loc := separatorPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if matchedGroup(loc) == commaSeparator && !hasTail(text[end:], minCommaTail) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + max(size, 1)
			continue
		}
		emit(last, start)
		last = end
		if end == start {
			end++
		}
		pos = end
	}
	emit(last, len(text))

	if len(segments) == 0 {
		return []Segment{{Index: 0, Start: 0, End: len(text), Text: text}}
	}
	return segments
}

func matchedGroup(loc []int) int {
	for g := 1; g*2 < len(loc); g++ {
		if loc[g*2] >= 0 {
			return g - 1
		}
	}
	return -1
}

// hasTail reports whether s starts with at least n characters before the
// first line break.
func hasTail(s string, n int) bool {
	count := 0
	for _, r := range s {
		if r == '\n' {
			return false
		}
		count++
		if count >= n {
			return true
		}
	}
	return false
}
