// Package extract turns chat text into slot records: date and time from the
// timeline resolvers, the rest from recognizer entities with ordered
// rule-based fallbacks.
package extract

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nadcal/internal/chunk"
	"nadcal/internal/event"
	"nadcal/internal/metrics"
	"nadcal/internal/ner"
	"nadcal/internal/normalize"
	"nadcal/internal/timeline"
)

type Extractor struct {
	normalizer *normalize.Normalizer
	dates      *timeline.Resolver
	recognizer ner.Recognizer
	now        func() time.Time
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

type Option func(*Extractor)

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(x *Extractor) { x.normalizer = n }
}

func WithDateResolver(r *timeline.Resolver) Option {
	return func(x *Extractor) { x.dates = r }
}

// WithRecognizer sets the entity recognizer. Without one, only the rule
// fallbacks run.
func WithRecognizer(r ner.Recognizer) Option {
	return func(x *Extractor) { x.recognizer = r }
}

// WithClock sets the source of the reference date relative expressions are
// resolved against.
func WithClock(now func() time.Time) Option {
	return func(x *Extractor) { x.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(x *Extractor) { x.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(x *Extractor) { x.metrics = m }
}

func New(opts ...Option) *Extractor {
	x := &Extractor{}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = zap.NewNop()
	}
	if x.normalizer == nil {
		x.normalizer = normalize.New(normalize.LoanwordTable, normalize.SlangTable)
	}
	if x.dates == nil {
		x.dates = timeline.NewResolver(timeline.WithLogger(x.logger))
	}
	if x.recognizer == nil {
		x.recognizer = ner.Nop
	}
	if x.now == nil {
		x.now = time.Now
	}
	return x
}

// Extract fills a slot record from one segment. RawText is text as given;
// every rule works on its normalized form.
func (x *Extractor) Extract(ctx context.Context, text string) event.Slots {
	normalized := x.normalizer.Normalize(text)
	slots := event.Slots{RawText: text}

	if d, ok := x.dates.ParseDate(normalized, x.now()); ok {
		slots.Date = &d
	}
	if t, ok := timeline.ParseTime(normalized); ok {
		slots.Time = &t
	}

	s := scope{text: normalized, entities: x.recognize(ctx, normalized)}
	slots.Description = x.firstMatch(event.FieldDescription, descriptionRules, s)
	slots.Attendees = x.firstMatch(event.FieldAttendees, attendeeRules, s)
	if loc := x.firstMatch(event.FieldLocation, locationRules, s); loc != nil {
		v := truncateRunes(*loc, maxLocationRunes)
		slots.Location = &v
	}
	return slots
}

// ExtractMany splits text into segments and extracts each one. Segments
// with neither a description nor a date are dropped as noise; if nothing is
// left the whole text is extracted as one record, so the result is never
// empty.
func (x *Extractor) ExtractMany(ctx context.Context, text string) []event.Slots {
	segments := chunk.SplitBySeparators(text)

	var out []event.Slots
	for i, seg := range segments {
		slots, err := x.safeExtract(ctx, seg)
		if err != nil {
			x.logger.Warn("segment extraction failed", zap.Int("segment", i), zap.Error(err))
			continue
		}
		if slots.Description != nil || slots.Date != nil {
			out = append(out, slots)
		}
	}

	if len(out) == 0 {
		slots, err := x.safeExtract(ctx, text)
		if err != nil {
			x.logger.Warn("extraction failed", zap.Error(err))
			slots = event.Slots{RawText: text}
		}
		out = []event.Slots{slots}
	}

	x.metrics.Extraction(len(out))
	x.logger.Debug("extracted", zap.Int("segments", len(segments)), zap.Int("records", len(out)))
	return out
}

func (x *Extractor) safeExtract(ctx context.Context, text string) (slots event.Slots, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract segment: panic: %v", r)
		}
	}()
	return x.Extract(ctx, text), nil
}

func (x *Extractor) recognize(ctx context.Context, text string) []ner.Entity {
	entities, err := x.recognizer.Recognize(ctx, text)
	if err != nil {
		x.logger.Warn("entity recognition failed, using rules only", zap.Error(err))
		x.metrics.NERFailure()
		return nil
	}
	return entities
}

// firstMatch runs rules in order and returns the first value produced. A
// rule that panics is logged and skipped.
func (x *Extractor) firstMatch(field string, rules []rule, s scope) *string {
	for _, r := range rules {
		v, ok := x.applyRule(field, r, s)
		if ok {
			x.logger.Debug("slot filled", zap.String("field", field), zap.String("rule", r.name))
			return &v
		}
	}
	return nil
}

func (x *Extractor) applyRule(field string, r rule, s scope) (v string, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			x.logger.Warn("extraction rule failed",
				zap.String("field", field), zap.String("rule", r.name), zap.Any("panic", p))
			v, ok = "", false
		}
	}()
	return r.apply(s)
}
