package session

import (
	"fmt"
	"strings"

	"nadcal/internal/event"
)

var summaryLabels = map[string]string{
	event.FieldDate:        "วันที่",
	event.FieldTime:        "เวลา",
	event.FieldDescription: "กิจกรรม",
	event.FieldAttendees:   "ผู้เข้าร่วม",
	event.FieldLocation:    "สถานที่",
}

// Summary renders a pending event for confirmation. Attendees and location
// are left out when absent or placeholders.
func Summary(p event.Pending) string {
	var b strings.Builder
	b.WriteString("ฉันพบข้อมูลนี้จากข้อความของคุณ:\n")
	for _, field := range event.Fields {
		v := p.Get(field)
		optional := field == event.FieldAttendees || field == event.FieldLocation
		if optional && (v == nil || *v == event.Placeholder) {
			continue
		}
		value := "N/A"
		if v != nil {
			value = *v
		}
		fmt.Fprintf(&b, "  %s: %s\n", summaryLabels[field], value)
	}

	var filled []string
	for _, field := range event.Fields {
		if v, ok := p.AutoFilled[field]; ok {
			filled = append(filled, field+": "+v)
		}
	}
	if len(filled) > 0 {
		fmt.Fprintf(&b, "  ตั้งค่าอัตโนมัติ: %s\n", strings.Join(filled, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
