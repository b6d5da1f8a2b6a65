// Package ner defines the named-entity recognizer the slot extractor
// consumes, plus the recognizers and wrappers the application wires up.
package ner

import "context"

type Label string

const (
	Date     Label = "DATE"
	Time     Label = "TIME"
	Activity Label = "ACTIVITY"
	Event    Label = "EVENT"
	Person   Label = "PERSON"
	Location Label = "LOCATION"
)

// POS is the coarse part-of-speech tag of an entity's leading token.
type POS string

const (
	Verb       POS = "VERB"
	Noun       POS = "NOUN"
	ProperNoun POS = "PROPN"
	Unknown    POS = "UNKNOWN"
)

type Entity struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
	POS   POS    `json:"pos"`
}

// Recognizer labels spans of already-normalized text. Implementations must
// be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

type RecognizerFunc func(ctx context.Context, text string) ([]Entity, error)

func (f RecognizerFunc) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// Nop recognizes nothing.
var Nop Recognizer = RecognizerFunc(func(context.Context, string) ([]Entity, error) {
	return nil, nil
})
