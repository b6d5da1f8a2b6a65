package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nadcal/internal/event"
	"nadcal/internal/metrics"
	"nadcal/internal/ner"
	"nadcal/internal/timeline"
)

var bangkok = time.FixedZone("ICT", 7*3600)

// Sunday.
var ref = time.Date(2025, 6, 1, 10, 30, 0, 0, bangkok)

func newTestExtractor(opts ...Option) *Extractor {
	base := []Option{
		WithClock(func() time.Time { return ref }),
		WithDateResolver(timeline.NewResolver(timeline.WithFallback(nil))),
	}
	return New(append(base, opts...)...)
}

func value(p *string) string { return event.Value(p) }

func TestExtractRulesOnly(t *testing.T) {
	x := newTestExtractor()
	s := x.Extract(context.Background(), "พรุ่งนี้ประชุมที่ห้อง 301 บ่ายสอง")

	assert.Equal(t, "พรุ่งนี้ประชุมที่ห้อง 301 บ่ายสอง", s.RawText)
	assert.Equal(t, "2025-06-02", value(s.Date))
	assert.Equal(t, "14:00", value(s.Time))
	assert.Equal(t, "ประชุม", value(s.Description))
	assert.Equal(t, "ห้อง 301", value(s.Location))
	assert.Nil(t, s.Attendees)
}

func TestExtractNamedAttendeeAndRoomLocation(t *testing.T) {
	x := newTestExtractor()
	s := x.Extract(context.Background(), "พรุ่งนี้ ประชุมกับ สมชาย ที่ห้องประชุม")

	assert.Equal(t, "สมชาย", value(s.Attendees))
	assert.Equal(t, "ห้องประชุม", value(s.Location))
	assert.Equal(t, "00:00", value(s.Time))
}

func TestExtractRelationAttendee(t *testing.T) {
	x := newTestExtractor()
	s := x.Extract(context.Background(), "ไปกินข้าวกับเพื่อนตอนเย็น")

	assert.Equal(t, "กินข้าว", value(s.Description))
	assert.Equal(t, "เพื่อน", value(s.Attendees))
	assert.Equal(t, "12:00", value(s.Time))
	assert.Nil(t, s.Date)
}

func TestExtractOnlinePlatform(t *testing.T) {
	x := newTestExtractor()
	s := x.Extract(context.Background(), "ประชุม zoom พรุ่งนี้")
	assert.Equal(t, Online, value(s.Location))
}

func TestExtractPrefersRecognizerEntities(t *testing.T) {
	var seen string
	rec := ner.RecognizerFunc(func(_ context.Context, text string) ([]ner.Entity, error) {
		seen = text
		return []ner.Entity{
			{Text: "ประชุมทีม", Label: ner.Activity, POS: ner.Noun},
			{Text: "ไม่นับ", Label: ner.Activity, POS: "ADJ"},
			{Text: "สมชาย", Label: ner.Person, POS: ner.ProperNoun},
			{Text: "ห้องสมุด", Label: ner.Location, POS: ner.Noun},
			{Text: "ลานจอดรถ", Label: ner.Location, POS: ner.Noun},
		}, nil
	})
	x := newTestExtractor(WithRecognizer(rec))
	s := x.Extract(context.Background(), "Meeting พรุ่งนี้")

	assert.Equal(t, "ประชุม พรุ่งนี้", seen)
	assert.Equal(t, "ประชุมทีม", value(s.Description))
	assert.Equal(t, "สมชาย", value(s.Attendees))
	assert.Equal(t, "ห้องสมุด", value(s.Location))
}

func TestExtractTruncatesLocation(t *testing.T) {
	rec := ner.RecognizerFunc(func(context.Context, string) ([]ner.Entity, error) {
		return []ner.Entity{{Text: strings.Repeat("ก", 40), Label: ner.Location, POS: ner.ProperNoun}}, nil
	})
	s := newTestExtractor(WithRecognizer(rec)).Extract(context.Background(), "ประชุม")
	require.NotNil(t, s.Location)
	assert.Equal(t, strings.Repeat("ก", 30), *s.Location)
}

func TestExtractSurvivesRecognizerFailure(t *testing.T) {
	m := metrics.New()
	rec := ner.RecognizerFunc(func(context.Context, string) ([]ner.Entity, error) {
		return nil, errors.New("model offline")
	})
	x := newTestExtractor(WithRecognizer(rec), WithMetrics(m))
	s := x.Extract(context.Background(), "พรุ่งนี้ประชุม")

	assert.Equal(t, "ประชุม", value(s.Description))
	assert.Equal(t, "2025-06-02", value(s.Date))
	assert.Equal(t, 1.0, counterValue(t, m, "nadcal_ner_failures_total"))
}

func TestExtractManySplitsEvents(t *testing.T) {
	m := metrics.New()
	x := newTestExtractor(WithMetrics(m))
	got := x.ExtractMany(context.Background(), "พรุ่งนี้ประชุมทีม และ วันศุกร์ไปหาหมอ")

	require.Len(t, got, 2)
	assert.Equal(t, "2025-06-02", value(got[0].Date))
	assert.Equal(t, "ประชุม", value(got[0].Description))
	assert.Equal(t, "พรุ่งนี้ประชุมทีม", got[0].RawText)
	assert.Equal(t, "2025-06-06", value(got[1].Date))
	assert.Equal(t, "วันศุกร์ไปหาหมอ", got[1].RawText)

	assert.Equal(t, 1.0, counterValue(t, m, "nadcal_extractions_total"))
	assert.Equal(t, 2.0, counterValue(t, m, "nadcal_segments_total"))
}

func TestExtractManyFallsBackToWholeText(t *testing.T) {
	x := newTestExtractor()
	got := x.ExtractMany(context.Background(), "อืม และ โอเค")
	require.Len(t, got, 1)
	assert.Equal(t, "อืม และ โอเค", got[0].RawText)
	assert.Nil(t, got[0].Description)
	assert.Nil(t, got[0].Date)
}

func TestExtractManyNeverEmpty(t *testing.T) {
	x := newTestExtractor()
	for _, in := range []string{"", "   ", " และ ", "hello"} {
		assert.NotEmpty(t, x.ExtractMany(context.Background(), in), "input %q", in)
	}
}

func TestExtractManyRecoversFromPanics(t *testing.T) {
	rec := ner.RecognizerFunc(func(context.Context, string) ([]ner.Entity, error) {
		panic("broken model")
	})
	x := newTestExtractor(WithRecognizer(rec))
	got := x.ExtractMany(context.Background(), "ประชุม และ กินข้าว")
	require.Len(t, got, 1)
	assert.Equal(t, "ประชุม และ กินข้าว", got[0].RawText)
}

func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	return 0
}
