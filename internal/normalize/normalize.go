// Package normalize rewrites colloquial Thai/English chat text into the
// canonical vocabulary the extraction rules are written against.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	zeroWidth  = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")
	// two SARA E typed in a row are meant as SARA AE
	doubleSaraE = strings.NewReplacer("เเ", "แ")
)

// Normalizer applies a loanword table and a slang table to text. The zero
// value is usable and applies no tables.
type Normalizer struct {
	Loanwords []Entry
	Slang     []Entry

	canonical []string
}

var defaultNormalizer = New(LoanwordTable, SlangTable)

// Normalize runs text through the default tables.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

func New(loanwords, slang []Entry) *Normalizer {
	n := &Normalizer{Loanwords: loanwords, Slang: slang}
	seen := map[string]struct{}{}
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		n.canonical = append(n.canonical, s)
	}
	for _, e := range loanwords {
		add(e.To)
	}
	for _, e := range slang {
		add(e.To)
	}
	for _, c := range SplitWordCorrections {
		add(c.Joined)
	}
	return n
}

// A trigger is not rewritten where it sits inside a canonical form that is
// already present in the text (e.g. "เช้า" inside "ช่วงเช้า"), so normalizing
// normalized text is a no-op.
func (n *Normalizer) Normalize(text string) string {
	text = canonicalizeUnicode(text)
	text = strings.ToLower(text)

	for _, e := range n.Loanwords {
		text = n.replace(text, strings.ToLower(e.From), e.To)
	}
	for i, c := range SplitWordCorrections {
		text = splitWordPatterns[i].ReplaceAllLiteralString(text, c.Joined)
	}
	for _, e := range n.Slang {
		text = n.replace(text, e.From, e.To)
	}

	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

func canonicalizeUnicode(text string) string {
	s := norm.NFC.String(text)
	s = zeroWidth.Replace(s)
	s = doubleSaraE.Replace(s)
	return dedupeMarks(s)
}

// dedupeMarks drops a combining mark that repeats the mark right before it,
// a common typo on Thai keyboards ("ก่่" -> "ก่").
func dedupeMarks(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if r == prev && unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

var splitWordPatterns = compileSplitWords()

func compileSplitWords() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(SplitWordCorrections))
	for i, c := range SplitWordCorrections {
		out[i] = regexp.MustCompile(regexp.QuoteMeta(c.Left) + `\s+` + regexp.QuoteMeta(c.Right))
	}
	return out
}

type span struct{ start, end int }

func (n *Normalizer) replace(text, from, to string) string {
	if from == "" || !strings.Contains(text, from) {
		return text
	}
	protected := n.protectedSpans(text, from)

	var b strings.Builder
	i := 0
	for {
		j := strings.Index(text[i:], from)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(from)
		b.WriteString(text[i:start])
		if covered(protected, start, end) {
			b.WriteString(from)
		} else {
			b.WriteString(to)
		}
		i = end
	}
	b.WriteString(text[i:])
	return b.String()
}

func (n *Normalizer) protectedSpans(text, from string) []span {
	var out []span
	for _, c := range n.canonical {
		if c == from || len(c) <= len(from) || !strings.Contains(c, from) {
			continue
		}
		offset := 0
		for {
			j := strings.Index(text[offset:], c)
			if j < 0 {
				break
			}
			start := offset + j
			out = append(out, span{start, start + len(c)})
			offset = start + 1
		}
	}
	return out
}

func covered(spans []span, start, end int) bool {
	for _, s := range spans {
		if s.start <= start && end <= s.end {
			return true
		}
	}
	return false
}
