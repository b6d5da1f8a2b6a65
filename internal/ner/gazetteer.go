package ner

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"gopkg.in/yaml.v3"
)

type Term struct {
	Text string `yaml:"text"`
	POS  POS    `yaml:"pos"`
}

// Lexicon lists known surface forms per label.
type Lexicon map[Label][]Term

// DefaultLexicon covers common Bangkok venues and event nouns that the
// rule-based fallbacks miss.
var DefaultLexicon = Lexicon{
	Activity: {
		{Text: "สัมมนา", POS: Noun},
		{Text: "ประชุมทีม", POS: Noun},
		{Text: "ประชุมผู้ปกครอง", POS: Noun},
		{Text: "สอบปลายภาค", POS: Noun},
		{Text: "สอบกลางภาค", POS: Noun},
		{Text: "ส่งเอกสาร", POS: Verb},
		{Text: "ส่งรายงาน", POS: Verb},
	},
	Event: {
		{Text: "งานแต่ง", POS: Noun},
		{Text: "งานบวช", POS: Noun},
		{Text: "งานวันเกิด", POS: Noun},
		{Text: "คอนเสิร์ต", POS: Noun},
	},
	Location: {
		{Text: "สยามพารากอน", POS: ProperNoun},
		{Text: "เซ็นทรัลเวิลด์", POS: ProperNoun},
		{Text: "ห้องสมุด", POS: Noun},
		{Text: "โรงอาหาร", POS: Noun},
		{Text: "สนามกีฬา", POS: Noun},
	},
}

func LoadLexicon(path string) (Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(raw, &lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	return lex, nil
}

type pattern struct {
	label Label
	pos   POS
}

// Gazetteer is an offline recognizer that finds lexicon terms in text.
// Overlapping hits resolve to the leftmost, then longest, term. A surface
// form listed under several labels keeps the first label in sorted order.
type Gazetteer struct {
	patterns []pattern
	ac       *ahocorasick.AhoCorasick
}

func NewGazetteer(lex Lexicon) *Gazetteer {
	g := &Gazetteer{}
	labels := make([]string, 0, len(lex))
	for l := range lex {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)

	var texts []string
	seen := map[string]struct{}{}
	for _, l := range labels {
		for _, t := range lex[Label(l)] {
			text := strings.ToLower(strings.TrimSpace(t.Text))
			if text == "" {
				continue
			}
			if _, ok := seen[text]; ok {
				continue
			}
			seen[text] = struct{}{}
			pos := t.POS
			if pos == "" {
				pos = Unknown
			}
			texts = append(texts, text)
			g.patterns = append(g.patterns, pattern{label: Label(l), pos: pos})
		}
	}
	if len(texts) == 0 {
		return g
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	ac := builder.Build(texts)
	g.ac = &ac
	return g
}

func (g *Gazetteer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.ac == nil {
		return nil, nil
	}
	var out []Entity
	for _, m := range g.ac.FindAll(text) {
		p := g.patterns[m.Pattern()]
		out = append(out, Entity{Text: text[m.Start():m.End()], Label: p.label, POS: p.pos})
	}
	return out, nil
}
