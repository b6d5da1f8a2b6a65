package timeline

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Fallback is a generic date parser tried after the Thai rules. It is given
// the lowercased text and the reference time.
type Fallback interface {
	Parse(text string, ref time.Time) (time.Time, bool)
}

type FallbackFunc func(text string, ref time.Time) (time.Time, bool)

func (f FallbackFunc) Parse(text string, ref time.Time) (time.Time, bool) {
	return f(text, ref)
}

const defaultFallbackBudget = 200 * time.Millisecond

// DefaultFallback understands English relative expressions ("next friday",
// "in 3 days") and absolute dates in common layouts ("2025-06-02",
// "02/06/2025"). Each call is bounded by a small time budget.
func DefaultFallback() Fallback {
	// clock-only rules are left out: a bare "10:00" is not a date
	w := when.New(nil)
	w.Add(
		en.Weekday(rules.Override),
		en.CasualDate(rules.Override),
		en.Deadline(rules.Override),
		en.PastTime(rules.Override),
		common.SlashDMY(rules.Override),
	)
	return WithBudget(Chain(
		FallbackFunc(func(text string, ref time.Time) (time.Time, bool) {
			r, err := w.Parse(text, ref)
			if err != nil || r == nil || !numericDateAllowed(r.Text, text) {
				return time.Time{}, false
			}
			return r.Time, true
		}),
		FallbackFunc(absoluteDate),
	), defaultFallbackBudget)
}

var (
	numericDate = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}([-/.]\d{1,4})?$`)
	datedToken  = regexp.MustCompile(`^(\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})$`)
)

// numericDateAllowed accepts a day/month with no year ("12/3") only when it
// is the whole text; inside a sentence it reads as a house or room number.
func numericDateAllowed(token, text string) bool {
	token = strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	if !numericDate.MatchString(token) {
		return true
	}
	return datedToken.MatchString(token) || token == strings.TrimSpace(text)
}

func absoluteDate(text string, ref time.Time) (time.Time, bool) {
	for _, field := range strings.Fields(text) {
		if !strings.ContainsAny(field, "-/") || !numericDateAllowed(field, text) {
			continue
		}
		t, err := dateparse.ParseIn(field, ref.Location())
		if err == nil && t.Year() >= 1900 {
			return t, true
		}
	}
	return time.Time{}, false
}

// Chain tries each parser in order; a parser that panics counts as a miss.
func Chain(parsers ...Fallback) Fallback {
	return FallbackFunc(func(text string, ref time.Time) (time.Time, bool) {
		for _, p := range parsers {
			if t, ok := safeParse(p, text, ref); ok {
				return t, true
			}
		}
		return time.Time{}, false
	})
}

// WithBudget gives up on f after d. The abandoned call finishes in the
// background and its result is dropped.
func WithBudget(f Fallback, d time.Duration) Fallback {
	if d <= 0 {
		return f
	}
	return FallbackFunc(func(text string, ref time.Time) (time.Time, bool) {
		type result struct {
			t  time.Time
			ok bool
		}
		done := make(chan result, 1)
		go func() {
			t, ok := safeParse(f, text, ref)
			done <- result{t, ok}
		}()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case r := <-done:
			return r.t, r.ok
		case <-timer.C:
			return time.Time{}, false
		}
	})
}

func safeParse(f Fallback, text string, ref time.Time) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	return f.Parse(text, ref)
}
