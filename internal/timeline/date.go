// Package timeline resolves Thai date and clock expressions to absolute
// calendar dates and 24-hour times.
package timeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DateLayout = "2006-01-02"

// YearRules disambiguates the year numeral that may follow a day and month.
// A two-digit year at or above TwoDigitPivot is read as 20yy, below it as the
// Buddhist 25yy. Any year above BuddhistThreshold is converted to Gregorian
// by subtracting BuddhistOffset.
type YearRules struct {
	TwoDigitPivot     int
	BuddhistThreshold int
	BuddhistOffset    int
}

var DefaultYearRules = YearRules{
	TwoDigitPivot:     50,
	BuddhistThreshold: 2500,
	BuddhistOffset:    543,
}

func (y YearRules) Resolve(candidate int) int {
	year := candidate
	if candidate < 100 {
		if candidate >= y.TwoDigitPivot {
			year = 2000 + candidate
		} else {
			year = 2500 + candidate
		}
	}
	if year > y.BuddhistThreshold {
		year -= y.BuddhistOffset
	}
	return year
}

type keyword struct {
	text  string
	value int
}

// Checked in order by substring containment; longer phrases sit ahead of
// the shorter phrases they contain.
var relativeDays = []keyword{
	{"วันนี้", 0},
	{"พรุ่งนี้", 1},
	{"มะรืนนี้", 2},
	{"วันถัดไป", 2},
	{"เมื่อวานซืน", -2},
	{"เ มื่อวาน", -1},
	{"เมื่อวานนี้", -1},
	{"วานนี้", -1},
	{"เมื่อวาน", -1},
}

var months = []keyword{
	{"มกราคม", 1}, {"ม.ค.", 1},
	{"กุมภาพันธ์", 2}, {"ก.พ.", 2},
	{"มีนาคม", 3}, {"มี.ค.", 3},
	{"เมษายน", 4}, {"เม.ย.", 4},
	{"พฤษภาคม", 5}, {"พ.ค.", 5},
	{"มิถุนายน", 6}, {"มิ.ย.", 6},
	{"กรกฎาคม", 7}, {"ก.ค.", 7},
	{"สิงหาคม", 8}, {"ส.ค.", 8},
	{"กันยายน", 9}, {"ก.ย.", 9},
	{"ตุลาคม", 10}, {"ต.ค.", 10},
	{"พฤศจิกายน", 11}, {"พ.ย.", 11},
	{"ธันวาคม", 12}, {"ธ.ค.", 12},
}

var weekdays = []keyword{
	{"จันทร์", int(time.Monday)},
	{"อังคาร", int(time.Tuesday)},
	{"พุธ", int(time.Wednesday)},
	{"พฤหัสบดี", int(time.Thursday)},
	{"พฤหัส", int(time.Thursday)},
	{"ศุกร์", int(time.Friday)},
	{"เสาร์", int(time.Saturday)},
	{"อาทิตย์", int(time.Sunday)},
}

var (
	numeral     = regexp.MustCompile(`\d+`)
	thaiDigits  = strings.NewReplacer("๐", "0", "๑", "1", "๒", "2", "๓", "3", "๔", "4", "๕", "5", "๖", "6", "๗", "7", "๘", "8", "๙", "9")
	defaultDate = NewResolver()
)

type Resolver struct {
	years    YearRules
	fallback Fallback
	logger   *zap.Logger
}

type Option func(*Resolver)

func WithYearRules(y YearRules) Option {
	return func(r *Resolver) { r.years = y }
}

// WithFallback replaces the generic parser tried last; nil disables it.
func WithFallback(f Fallback) Option {
	return func(r *Resolver) { r.fallback = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		years:    DefaultYearRules,
		fallback: DefaultFallback(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ParseDate resolves text with the default resolver.
func ParseDate(text string, ref time.Time) (string, bool) {
	return defaultDate.ParseDate(text, ref)
}

// ParseDate returns the date as YYYY-MM-DD. Relative keywords are tried
// first, then a month name, then a weekday, then the generic fallback.
func (r *Resolver) ParseDate(text string, ref time.Time) (string, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	for _, k := range relativeDays {
		if strings.Contains(text, k.text) {
			return today.AddDate(0, 0, k.value).Format(DateLayout), true
		}
	}

	if d, matched, ok := r.monthDate(text, today); matched {
		if !ok {
			return "", false
		}
		return d.Format(DateLayout), true
	}

	for _, k := range weekdays {
		if strings.Contains(text, k.text) {
			ahead := k.value - int(today.Weekday())
			if ahead <= 0 {
				ahead += 7
			}
			return today.AddDate(0, 0, ahead).Format(DateLayout), true
		}
	}

	if r.fallback == nil {
		return "", false
	}
	t, ok := r.fallback.Parse(text, ref)
	if !ok {
		r.logger.Debug("date fallback found nothing", zap.String("text", text))
		return "", false
	}
	return t.Format(DateLayout), true
}

// monthDate reports matched=true once a month name is found; ok is false
// when the numbers around it do not form a real calendar date.
func (r *Resolver) monthDate(text string, today time.Time) (d time.Time, matched, ok bool) {
	for _, m := range months {
		if !strings.Contains(text, m.text) {
			continue
		}
		nums := Numerals(text)
		day := 1
		if len(nums) > 0 {
			day = nums[0]
		}
		year := today.Year()
		if len(nums) >= 2 {
			year = r.years.Resolve(nums[1])
		}
		d, valid := calendarDate(year, time.Month(m.value), day, today.Location())
		if !valid {
			return time.Time{}, true, false
		}
		if d.Before(today) {
			if next, valid := calendarDate(year+1, time.Month(m.value), day, today.Location()); valid {
				d = next
			}
		}
		return d, true, true
	}
	return time.Time{}, false, false
}

func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// Numerals returns every run of digits in text, Thai digits included.
func Numerals(text string) []int {
	raw := numeral.FindAllString(thaiDigits.Replace(text), -1)
	out := make([]int, 0, len(raw))
	for _, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
