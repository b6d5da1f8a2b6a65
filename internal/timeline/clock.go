package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Only the start of a range is kept; the first separator in this list that
// occurs in the text wins.
var rangeSeparators = []string{"–", "-", "~", "ถึง", "to"}

var (
	clockPattern = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
	// afternoon, evening, night
	pmMarkers  = []string{"บ่าย", "เย็น", "ค่ำ"}
	halfMarker = "ครึ่ง"
)

// ParseTime returns the start time in text as HH:MM. Missing hour and
// minute numerals read as 0, so text without any time signal gives 00:00;
// only an out-of-range clock is absent.
func ParseTime(text string) (string, bool) {
	text = thaiDigits.Replace(strings.ToLower(strings.TrimSpace(text)))
	for _, sep := range rangeSeparators {
		if i := strings.Index(text, sep); i >= 0 {
			text = strings.TrimSpace(text[:i])
			break
		}
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if validClock(hour, minute) {
			return formatClock(hour, minute), true
		}
	}

	nums := Numerals(text)
	pm := containsAny(text, pmMarkers)
	half := strings.Contains(text, halfMarker)
	hour, minute := 0, 0
	if len(nums) > 0 {
		hour = nums[0]
	}
	if len(nums) > 1 {
		minute = nums[1]
	}
	if pm && hour < 12 {
		hour += 12
	}
	if half {
		minute = 30
	}
	if !validClock(hour, minute) {
		return "", false
	}
	return formatClock(hour, minute), true
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
