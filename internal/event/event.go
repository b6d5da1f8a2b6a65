// Package event holds the slot record produced by extraction and the event
// built from it once a user confirms.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	FieldDate        = "date"
	FieldTime        = "time"
	FieldDescription = "description"
	FieldAttendees   = "attendees"
	FieldLocation    = "location"
)

// Fields lists the slot names in display order.
var Fields = []string{FieldDate, FieldTime, FieldDescription, FieldAttendees, FieldLocation}

// Placeholder marks a field the user saw as intentionally blank.
const Placeholder = "-"

var (
	ErrEmptyID      = errors.New("event id is empty")
	ErrUnknownField = errors.New("unknown event field")
)

// Slots is the extraction result for one text segment. A nil field is
// absent; an empty string is never used to mean absent.
type Slots struct {
	Date        *string `json:"date" yaml:"date"`
	Time        *string `json:"time" yaml:"time"`
	Description *string `json:"description" yaml:"description"`
	Attendees   *string `json:"attendees" yaml:"attendees"`
	Location    *string `json:"location" yaml:"location"`
	RawText     string  `json:"raw_text" yaml:"raw_text"`
}

func (s *Slots) field(name string) (**string, error) {
	switch name {
	case FieldDate:
		return &s.Date, nil
	case FieldTime:
		return &s.Time, nil
	case FieldDescription:
		return &s.Description, nil
	case FieldAttendees:
		return &s.Attendees, nil
	case FieldLocation:
		return &s.Location, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Get returns the named field; unknown names read as absent.
func (s Slots) Get(name string) *string {
	f, err := s.field(name)
	if err != nil {
		return nil
	}
	return *f
}

func (s *Slots) Set(name string, v *string) error {
	f, err := s.field(name)
	if err != nil {
		return err
	}
	*f = normalizeValue(v)
	return nil
}

// ClearPlaceholders turns "-" values back into absent fields.
func (s Slots) ClearPlaceholders() Slots {
	for _, name := range Fields {
		if v := s.Get(name); v != nil && *v == Placeholder {
			_ = s.Set(name, nil)
		}
	}
	return s
}

type Event struct {
	ID        string `json:"id" yaml:"id"`
	Slots     `yaml:",inline"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func New(slots Slots, now time.Time) Event {
	return Event{
		ID:        NewID(),
		Slots:     slots,
		CreatedAt: now,
	}
}

func NewID() string {
	return "evt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Patch maps field names to new values; a nil value clears the field.
type Patch map[string]*string

func (p Patch) Validate() error {
	for name := range p {
		if _, err := (&Slots{}).field(name); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges p into e and stamps UpdatedAt. ID, CreatedAt and RawText are
// never touched.
func (e *Event) Apply(p Patch, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for name, v := range p {
		_ = e.Set(name, v)
	}
	e.UpdatedAt = &now
	return nil
}

// Pending is an event awaiting confirmation, with the validation result
// that goes with it. The metadata never reaches a store.
type Pending struct {
	Event
	IsValid       bool              `json:"is_valid"`
	MissingFields []string          `json:"missing_fields"`
	AutoFilled    map[string]string `json:"auto_filled"`
}

// Clean drops the validation metadata and placeholder values.
func (p Pending) Clean() Event {
	e := p.Event
	e.Slots = e.Slots.ClearPlaceholders()
	return e
}

func String(s string) *string {
	return &s
}

// Value dereferences v, reading absent as "".
func Value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func normalizeValue(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
