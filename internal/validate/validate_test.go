package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nadcal/internal/event"
)

func TestValidateNothingPresent(t *testing.T) {
	valid, missing, defaults := Validate(event.Slots{})
	assert.False(t, valid)
	assert.Equal(t, []string{"activity", "date"}, missing)
	assert.Equal(t, map[string]string{"time": "09:00", "location": "-"}, defaults)
}

func TestValidateEitherCriticalFieldSuffices(t *testing.T) {
	valid, missing, _ := Validate(event.Slots{Date: event.String("2025-06-02")})
	assert.True(t, valid)
	assert.Equal(t, []string{"activity"}, missing)

	valid, missing, _ = Validate(event.Slots{Description: event.String("ประชุม")})
	assert.True(t, valid)
	assert.Equal(t, []string{"date"}, missing)
}

func TestValidateNoDefaultsForPresentFields(t *testing.T) {
	_, missing, defaults := Validate(event.Slots{
		Description: event.String("ประชุม"),
		Date:        event.String("2025-06-02"),
		Time:        event.String("14:00"),
		Location:    event.String("ห้อง 301"),
	})
	assert.Empty(t, missing)
	assert.Empty(t, defaults)
}

func TestCustomDefaults(t *testing.T) {
	v := New(Defaults{Time: "10:00"})
	_, _, defaults := v.Validate(event.Slots{})
	assert.Equal(t, map[string]string{"time": "10:00"}, defaults)
}

func TestApplyDefaultsKeepsPresentValues(t *testing.T) {
	s := ApplyDefaults(event.Slots{Time: event.String("14:00")}, map[string]string{"time": "09:00", "location": "-"})
	assert.Equal(t, "14:00", event.Value(s.Time))
	assert.Equal(t, "-", event.Value(s.Location))
	assert.Nil(t, s.Date)
}

func TestIsSaveable(t *testing.T) {
	assert.False(t, IsSaveable(event.Slots{Description: event.String("ประชุม")}))
	assert.True(t, IsSaveable(event.Slots{Description: event.String("ประชุม"), Date: event.String("2025-06-02")}))
	assert.False(t, IsSaveable(event.Slots{Date: event.String("2025-06-02")}))
}

func TestMissingFieldsMessage(t *testing.T) {
	assert.Equal(t, "", MissingFieldsMessage(nil))
	assert.Equal(t, prompts[Activity], MissingFieldsMessage([]string{"activity", "date"}))
	assert.Equal(t, prompts[Date], MissingFieldsMessage([]string{"date"}))
	assert.Equal(t, "location?", MissingFieldsMessage([]string{"location"}))
}
