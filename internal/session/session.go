// Package session runs the confirmation flow of one chat: extracted events
// wait as pending until the user saves, edits or cancels them.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"nadcal/internal/event"
	"nadcal/internal/extract"
	"nadcal/internal/store"
	"nadcal/internal/timeline"
	"nadcal/internal/validate"
)

var (
	ErrNoPending         = errors.New("no pending events")
	ErrIndexOutOfRange   = errors.New("pending event index out of range")
	ErrInvalidFieldValue = errors.New("invalid field value")
)

const clockLayout = "15:04"

type Session struct {
	key       string
	extractor *extract.Extractor
	validator *validate.Validator
	store     *store.Store
	now       func() time.Time
	logger    *zap.Logger

	mu      sync.Mutex
	pending []event.Pending
}

type Option func(*Session)

func WithValidator(v *validate.Validator) Option {
	return func(s *Session) { s.validator = v }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New starts a session whose confirmed events go to st under key.
func New(key string, x *extract.Extractor, st *store.Store, opts ...Option) *Session {
	s := &Session{
		key:       key,
		extractor: x,
		validator: validate.New(validate.DefaultDefaults),
		store:     st,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Key() string { return s.key }

// Candidate is one event found in a message, with what to tell the user
// about it.
type Candidate struct {
	Pending event.Pending
	Message string
}

type Reply struct {
	Candidates []Candidate
}

// PendingCount is the number of candidates waiting for confirmation.
func (r Reply) PendingCount() int {
	n := 0
	for _, c := range r.Candidates {
		if c.Pending.IsValid {
			n++
		}
	}
	return n
}

func (r Reply) String() string {
	var b strings.Builder
	if len(r.Candidates) > 1 {
		fmt.Fprintf(&b, "พบ %d กิจกรรม\n", len(r.Candidates))
	}
	for i, c := range r.Candidates {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(r.Candidates) > 1 {
			fmt.Fprintf(&b, "กิจกรรมที่ %d: ", i+1)
		}
		b.WriteString(c.Message)
		b.WriteString("\n")
	}
	return b.String()
}

// Submit extracts the events in text and replaces the pending list with
// the valid ones. Invalid candidates come back with a follow-up question.
func (s *Session) Submit(ctx context.Context, text string) Reply {
	return s.Offer(s.extractor.ExtractMany(ctx, text))
}

// Offer validates already extracted records and makes the valid ones the
// pending list, the same way Submit does for a message.
func (s *Session) Offer(records []event.Slots) Reply {
	var reply Reply
	var pending []event.Pending
	for _, slots := range records {
		p := s.check(event.New(slots, s.now()))
		msg := "ข้อมูลไม่ครบ: " + validate.MissingFieldsMessage(p.MissingFields)
		if p.IsValid {
			pending = append(pending, p)
			msg = Summary(p)
		}
		reply.Candidates = append(reply.Candidates, Candidate{Pending: p, Message: msg})
	}

	s.mu.Lock()
	s.pending = pending
	s.mu.Unlock()

	s.logger.Info("message processed",
		zap.String("session", s.key),
		zap.Int("candidates", len(reply.Candidates)),
		zap.Int("pending", len(pending)))
	return reply
}

// check validates e and fills defaults into its absent optional fields.
func (s *Session) check(e event.Event) event.Pending {
	valid, missing, defaults := s.validator.Validate(e.Slots)
	e.Slots = validate.ApplyDefaults(e.Slots, defaults)
	return event.Pending{Event: e, IsValid: valid, MissingFields: missing, AutoFilled: defaults}
}

func (s *Session) Pending() []event.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Pending(nil), s.pending...)
}

// Failure is a pending event that could not be saved, numbered from 1,
// with the Thai names of the fields it lacks.
type Failure struct {
	Index   int
	Missing []string
}

type SaveReport struct {
	Total  int
	Saved  []event.Event
	Failed []Failure
}

func (r SaveReport) String() string {
	var b strings.Builder
	switch {
	case len(r.Saved) == r.Total:
		fmt.Fprintf(&b, "บันทึกสำเร็จ %d กิจกรรม!\n", len(r.Saved))
	case len(r.Saved) > 0:
		fmt.Fprintf(&b, "บันทึกสำเร็จ %d/%d กิจกรรม\n", len(r.Saved), r.Total)
	default:
		b.WriteString("ไม่สามารถบันทึกได้ - ข้อมูลไม่ครบ\n")
	}
	for _, f := range r.Failed {
		fmt.Fprintf(&b, "กิจกรรมที่ %d: ขาด %s\n", f.Index, strings.Join(f.Missing, ", "))
	}
	return b.String()
}

var thaiFieldNames = []struct{ field, name string }{
	{event.FieldDate, "วันที่"},
	{event.FieldTime, "เวลา"},
	{event.FieldDescription, "กิจกรรม"},
}

// ConfirmAll saves every pending event that has both an activity and a
// date once placeholders are cleared. A store failure stops the run; the
// events not yet saved stay pending.
func (s *Session) ConfirmAll(ctx context.Context) (SaveReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return SaveReport{}, ErrNoPending
	}

	report := SaveReport{Total: len(s.pending)}
	for i, p := range s.pending {
		e := p.Clean()
		if !validate.IsSaveable(e.Slots) {
			var missing []string
			for _, f := range thaiFieldNames {
				if e.Get(f.field) == nil {
					missing = append(missing, f.name)
				}
			}
			report.Failed = append(report.Failed, Failure{Index: i + 1, Missing: missing})
			continue
		}
		if err := s.store.Add(ctx, s.key, e); err != nil {
			s.pending = s.pending[i:]
			return report, fmt.Errorf("save pending event %d: %w", i+1, err)
		}
		report.Saved = append(report.Saved, e)
	}
	s.pending = nil

	s.logger.Info("pending events confirmed",
		zap.String("session", s.key),
		zap.Int("saved", len(report.Saved)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

// Edit changes fields of the i-th pending event (from 0) and validates it
// again.
func (s *Session) Edit(i int, p event.Patch) (event.Pending, error) {
	if err := checkPatch(p); err != nil {
		return event.Pending{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return event.Pending{}, ErrNoPending
	}
	if i < 0 || i >= len(s.pending) {
		return event.Pending{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	e := s.pending[i].Event
	for name, v := range p {
		if err := e.Set(name, v); err != nil {
			return event.Pending{}, err
		}
	}
	s.pending[i] = s.check(e)
	return s.pending[i], nil
}

// Cancel drops every pending event.
func (s *Session) Cancel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.pending)
	s.pending = nil
	return n
}

// Events returns the saved events of this session.
func (s *Session) Events(ctx context.Context) ([]event.Event, error) {
	return s.store.Load(ctx, s.key)
}

func checkPatch(p event.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if v := p[event.FieldDate]; v != nil {
		if _, err := time.Parse(timeline.DateLayout, strings.TrimSpace(*v)); err != nil {
			return fmt.Errorf("%w: date %q", ErrInvalidFieldValue, *v)
		}
	}
	if v := p[event.FieldTime]; v != nil {
		if _, err := time.Parse(clockLayout, strings.TrimSpace(*v)); err != nil {
			return fmt.Errorf("%w: time %q", ErrInvalidFieldValue, *v)
		}
	}
	return nil
}
