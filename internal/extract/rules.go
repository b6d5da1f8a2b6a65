package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"nadcal/internal/ner"
)

// scope is what every rule sees for one segment.
type scope struct {
	text     string
	entities []ner.Entity
}

// rule yields a field value or reports that it found nothing. A rule list
// for a field is tried in order until one yields.
type rule struct {
	name  string
	apply func(s scope) (string, bool)
}

const (
	maxAttendees      = 2
	maxLocationRunes  = 30
	minNameRunes      = 2
	maxNameRunes      = 40
	minLocationDetail = 3
)

// Thai letter classes for use inside regexp brackets. thaiLetters is
// consonants, the vowel block, leading vowels and the tone marks.
const (
	thaiConsonants = `ก-ฮ`
	thaiLetters    = `ก-ฮ\x{0E30}-\x{0E39}เ-ไ\x{0E48}-\x{0E4D}`
	thaiPlace      = `ก-ฮ\x{0E30}-\x{0E3A}เ-ไ\x{0E47}-\x{0E4E}`
)

var descriptionRules = []rule{
	{"ner-activity", nerActivity},
	{"activity-keyword", activityKeyword},
}

var attendeeRules = []rule{
	{"ner-person", nerPersons},
	{"named-person", namedPersons},
	{"relation-person", relationPersons},
}

var locationRules = []rule{
	{"ner-location", nerLocation},
	{"location-keyword", locationKeyword},
	{"at-location", atLocation},
	{"online-platform", onlinePlatform},
}

var (
	activityPOS = map[ner.POS]bool{ner.Verb: true, ner.Noun: true, ner.ProperNoun: true, ner.Unknown: true}
	entityPOS   = map[ner.POS]bool{ner.ProperNoun: true, ner.Noun: true, ner.Unknown: true}
)

func nerActivity(s scope) (string, bool) {
	var parts []string
	for _, e := range s.entities {
		if (e.Label == ner.Activity || e.Label == ner.Event) && activityPOS[e.POS] {
			parts = append(parts, e.Text)
		}
	}
	return joinNonEmpty(parts, ", ")
}

func nerPersons(s scope) (string, bool) {
	var names []string
	for _, e := range s.entities {
		if e.Label == ner.Person && entityPOS[e.POS] {
			names = append(names, e.Text)
		}
	}
	return joinNames(names)
}

func nerLocation(s scope) (string, bool) {
	for _, e := range s.entities {
		if e.Label == ner.Location && entityPOS[e.POS] && strings.TrimSpace(e.Text) != "" {
			return strings.TrimSpace(e.Text), true
		}
	}
	return "", false
}

// ActivityKeywords is scanned in order; the first one contained in the
// text becomes the description.
var ActivityKeywords = []string{
	// work and study
	"ประชุม", "meeting", "นัด", "เจอ", "พบ",
	"เรียน", "สอบ", "นำเสนอ", "presentation",
	"สัมมนา", "workshop", "ส่งงาน", "รายงาน",

	// meals
	"กินข้าว", "กินอาหาร", "ทานข้าว", "ทานอาหาร",
	"อาหาร", "มื้อ", "เลี้ยง", "ดินเนอร์",

	// social
	"เที่ยว", "ไปเที่ยว", "ไปเดิน", "ช้อปปิ้ง", "ดูหนัง",
	"ดูคอนเสิร์ต", "งานปาร์ตี้", "ปาร์ตี้",

	// health
	"หมอ", "คลินิก", "รักษา", "ตรวจ", "โรงพยาบาล",

	// fitness
	"ออกกำลังกาย", "ฟิตเนส", "วิ่ง", "ว่ายน้ำ", "โยคะ",
}

func activityKeyword(s scope) (string, bool) {
	for _, kw := range ActivityKeywords {
		if strings.Contains(s.text, kw) {
			return kw, true
		}
	}
	return "", false
}

var (
	titles = []string{
		`รศ\.ดร\.`, `รศ\.`, `ผศ\.ดร\.`, `ผศ\.`, `ดร\.`, `พญ\.`, `นพ\.`,
		`อาจารย์`, `คุณ`, `นาย`, `นางสาว`, `นาง`, `น\.ส\.`,
		`ท่าน`, `พี่`, `เพื่อน`,
	}
	roles = []string{`ผอ\.`, `ผู้อำนวยการ`, `ประธาน`, `เลขานุการ`, `นศ\.`, `นักศึกษา`}

	// Each pattern ends in a non-capturing terminator group. Scanning
	// resumes where the captures end, so a terminator may also begin the
	// next match.
	personPatterns = []*regexp.Regexp{
		// first name and surname
		regexp.MustCompile(`([` + thaiConsonants + `]{2,15})\s+([` + thaiConsonants + `]{2,20})(?:\s|$|ที่|ตอน|เวลา)`),
		// title, name and optional surname
		regexp.MustCompile(`(?:` + strings.Join(titles, "|") + `)\s+([` + thaiConsonants + `][` + thaiLetters + `]{2,25})(?:\s+([` + thaiConsonants + `]{2,20}))?(?:\s|$|ที่|ตอน)`),
		// role and name
		regexp.MustCompile(`(?:` + strings.Join(roles, "|") + `)\s+([` + thaiConsonants + `][` + thaiLetters + `]{2,20})(?:\s|$|ที่)`),
		// "with" and a name or nickname
		regexp.MustCompile(`กับ\s+([` + thaiConsonants + `][` + thaiLetters + `]{1,20})(?:\s|$|ที่|และ)`),
		// meeting verb and a name
		regexp.MustCompile(`(?:พบ|เจอ|นัด|หา|ติดต่อ)\s+([` + thaiConsonants + `][` + thaiLetters + `]{1,20})(?:\s|$|ที่)`),
		// department descriptors
		regexp.MustCompile(`(อาจารย์(?:สาขา)?(?:วิชา)?[` + thaiLetters + `ฯ\s]{3,40})(?:\s|$|ที่|ตอน|เวลา|วัน)`),
		regexp.MustCompile(`(นักศึกษา[` + thaiLetters + `\s]{0,20})(?:\s|$|ที่)`),
	}

	// Words the name patterns pick up that are never people.
	nameStopwords = map[string]bool{
		"วัน": true, "เวลา": true, "ที่": true, "ตอน": true, "เดือน": true, "ปี": true, "ประชุม": true,
		"ม.ค.": true, "ก.พ.": true, "มี.ค.": true, "เม.ย.": true, "พ.ค.": true, "มิ.ย.": true,
		"ก.ค.": true, "ส.ค.": true, "ก.ย.": true, "ต.ค.": true, "พ.ย.": true, "ธ.ค.": true,
	}
)

func namedPersons(s scope) (string, bool) {
	var found []string
	for _, re := range personPatterns {
		for _, groups := range findCaptures(re, s.text) {
			for _, g := range groups {
				if name := strings.TrimSpace(g); validName(name) {
					found = append(found, name)
				}
			}
		}
	}
	return joinNames(found)
}

func validName(name string) bool {
	if name == "" || nameStopwords[name] || strings.Contains(name, ".") {
		return false
	}
	n := utf8.RuneCountInString(name)
	if n < minNameRunes || n > maxNameRunes {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	return !unicode.Is(unicode.Mn, first)
}

var (
	relations = `เพื่อนร่วมงาน|เพื่อน|แฟนสาว|แฟนหนุ่ม|แฟน|พี่|น้อง|พ่อ|แม่|ลูก|สามี|ภรรยา|เจ้านาย|หัวหน้า|ผู้บังคับบัญชา|ทีม|คนรัก`

	relationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`กับ\s*(` + relations + `)`),
		regexp.MustCompile(`(เพื่อน|แฟน|พี่|น้อง)\s*(?:ไป|มา|พบ|เจอ|นัด)`),
	}
)

func relationPersons(s scope) (string, bool) {
	var found []string
	for _, re := range relationPatterns {
		for _, m := range re.FindAllStringSubmatch(s.text, -1) {
			found = append(found, m[1])
		}
	}
	return joinNames(found)
}

// LocationKeywords name categories of place. The first keyword found in
// the text is kept with up to 20 characters of detail after it.
var LocationKeywords = []string{
	"ตึก", "อาคาร", "ห้อง", "ชั้น", "ลาน",
	"โรงพยาบาล", "โรงเรียน", "มหาวิทยาลัย",
	"ศูนย์", "คณะ", "สำนักงาน",
}

var locationKeywordPatterns = compileLocationKeywords(LocationKeywords)

func compileLocationKeywords(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		out[i] = regexp.MustCompile(regexp.QuoteMeta(kw) + `\s*([` + thaiPlace + `0-9๐-๙\s]{0,20})(?:\s|ที่|ตอน|เวลา|$)`)
	}
	return out
}

// locationStops end a location's detail; what follows is a time or a
// companion, not part of the place.
var locationStops = []string{"ช่วง", "ตอน", "เวลา", "กับ", "พรุ่งนี้", "วันนี้", "วันที่"}

func locationKeyword(s scope) (string, bool) {
	for i, kw := range LocationKeywords {
		m := locationKeywordPatterns[i].FindStringSubmatch(s.text)
		if m == nil {
			continue
		}
		detail := cutAtStops(m[1])
		location := kw
		if detail != "" {
			first, _ := utf8.DecodeRuneInString(detail)
			if unicode.IsDigit(first) {
				location = kw + " " + detail
			} else {
				location = kw + detail
			}
		}
		n := utf8.RuneCountInString(location)
		if n-utf8.RuneCountInString(kw) <= minLocationDetail || n > maxLocationRunes {
			continue
		}
		return location, true
	}
	return "", false
}

var (
	atPattern     = regexp.MustCompile(`ที่\s*([` + thaiConsonants + `][` + thaiPlace + `\s]{2,25})(?:ตอน|เวลา|ชั้น|$)`)
	onlinePattern = regexp.MustCompile(`(?i)(zoom|google\s*meet|teams|online|ออนไลน์)`)
)

// Online is the location recorded for any video-call platform.
const Online = "ออนไลน์"

func atLocation(s scope) (string, bool) {
	m := atPattern.FindStringSubmatch(s.text)
	if m == nil {
		return "", false
	}
	place := cutAtStops(m[1])
	if utf8.RuneCountInString(place) < minNameRunes {
		return "", false
	}
	return place, true
}

func onlinePlatform(s scope) (string, bool) {
	if onlinePattern.MatchString(s.text) {
		return Online, true
	}
	return "", false
}

func cutAtStops(detail string) string {
	for _, stop := range locationStops {
		if i := strings.Index(detail, stop); i >= 0 {
			detail = detail[:i]
		}
	}
	return strings.TrimSpace(detail)
}

// findCaptures returns the non-empty capture groups of every match of re
// in text.
func findCaptures(re *regexp.Regexp, text string) [][]string {
	var out [][]string
	for pos := 0; pos <= len(text); {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		resume := pos + loc[1]
		captureEnd := -1
		var groups []string
		for g := 1; 2*g+1 < len(loc); g++ {
			if loc[2*g] < 0 {
				continue
			}
			groups = append(groups, text[pos+loc[2*g]:pos+loc[2*g+1]])
			captureEnd = max(captureEnd, pos+loc[2*g+1])
		}
		if captureEnd > pos+loc[0] {
			resume = captureEnd
		}
		if resume <= pos {
			_, size := utf8.DecodeRuneInString(text[pos:])
			resume = pos + max(size, 1)
		}
		out = append(out, groups)
		pos = resume
	}
	return out
}

// joinNames dedupes names in first-seen order and keeps at most two.
func joinNames(names []string) (string, bool) {
	seen := map[string]bool{}
	var unique []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
		if len(unique) == maxAttendees {
			break
		}
	}
	return joinNonEmpty(unique, ", ")
}

func joinNonEmpty(parts []string, sep string) (string, bool) {
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, sep), true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
