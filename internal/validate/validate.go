// Package validate decides whether extracted slots describe an event. An
// event with an activity or a date is worth talking about; only one with
// both is saved.
package validate

import "nadcal/internal/event"

// Names used in the missing-field list.
const (
	Activity = "activity"
	Date     = "date"
	Time     = "time"
)

// Defaults are the values filled into absent non-critical fields.
type Defaults struct {
	Time     string
	Location string
}

var DefaultDefaults = Defaults{Time: "09:00", Location: event.Placeholder}

type Validator struct {
	defaults Defaults
}

func New(d Defaults) *Validator {
	return &Validator{defaults: d}
}

var std = New(DefaultDefaults)

func Validate(s event.Slots) (bool, []string, map[string]string) {
	return std.Validate(s)
}

// Validate reports whether s has an activity or a date, which of the two
// are missing (activity first), and defaults for the absent time and
// location. Activity and date are never defaulted.
func (v *Validator) Validate(s event.Slots) (valid bool, missing []string, defaults map[string]string) {
	hasActivity := present(s.Description)
	hasDate := present(s.Date)

	if !hasActivity {
		missing = append(missing, Activity)
	}
	if !hasDate {
		missing = append(missing, Date)
	}

	defaults = map[string]string{}
	if !present(s.Time) && v.defaults.Time != "" {
		defaults[event.FieldTime] = v.defaults.Time
	}
	if !present(s.Location) && v.defaults.Location != "" {
		defaults[event.FieldLocation] = v.defaults.Location
	}
	return hasActivity || hasDate, missing, defaults
}

// ApplyDefaults fills absent fields of s from defaults; present fields are
// kept.
func ApplyDefaults(s event.Slots, defaults map[string]string) event.Slots {
	for field, value := range defaults {
		if present(s.Get(field)) {
			continue
		}
		v := value
		_ = s.Set(field, &v)
	}
	return s
}

// IsSaveable requires both an activity and a date. Placeholders must be
// cleared by the caller first.
func IsSaveable(s event.Slots) bool {
	return present(s.Description) && present(s.Date)
}

var prompts = map[string]string{
	Activity: "กิจกรรมคืออะไรคะ? (เช่น ประชุม, เรียน, นัดหมาย)",
	Date:     "วันไหนคะ? (เช่น พรุ่งนี้, วันจันทร์, 15 กุมภาพันธ์)",
	Time:     "เวลาเท่าไหร่คะ? (เช่น 10 โมง, บ่าย 2 โมง)",
}

// MissingFieldsMessage asks about the first missing field only.
func MissingFieldsMessage(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	if p, ok := prompts[missing[0]]; ok {
		return p
	}
	return missing[0] + "?"
}

func present(v *string) bool {
	return v != nil && *v != ""
}
