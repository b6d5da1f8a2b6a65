package normalize

// Entry rewrites every occurrence of From to To. Tables are applied in
// declaration order; an earlier entry can consume text a later entry would
// have matched.
type Entry struct {
	From string
	To   string
}

// LoanwordTable maps English business and time vocabulary to Thai. Keys are
// matched case-insensitively.
var LoanwordTable = []Entry{
	// activities
	{"video call", "โทร"},
	{"google meet", "ออนไลน์"},
	{"ms teams", "ออนไลน์"},
	{"meeting", "ประชุม"},
	{"meet", "ประชุม"},
	{"mtg", "ประชุม"},
	{"meetup", "ประชุม"},
	{"briefing", "ชี้แจง"},
	{"brief", "ชี้แจง"},
	{"presentation", "นำเสนอ"},
	{"present", "นำเสนอ"},
	{"review", "ทบทวน"},
	{"report", "รายงาน"},
	{"update", "อัปเดต"},

	// time
	{"tomorrow", "พรุ่งนี้"},
	{"today", "วันนี้"},
	{"tonight", "คืนนี้"},
	{"morning", "ช่วงเช้า"},
	{"afternoon", "ช่วงบ่าย"},
	{"evening", "ช่วงเย็น"},

	// online
	{"zoom", "ออนไลน์"},
	{"online", "ออนไลน์"},
}

// SlangTable maps Thai abbreviations and colloquial forms to formal Thai.
var SlangTable = []Entry{
	// days
	{"พน.", "พรุ่งนี้"},
	{"พน", "พรุ่งนี้"},
	{"มะรืน", "วันถัดไป"},
	{"มะลืนนี้", "วันถัดไป"},
	{"มะวาน", "เมื่อวาน"},

	// periods of the day
	{"ตอนเช้า", "ช่วงเช้า"},
	{"เช้า", "ช่วงเช้า"},
	{"ตอนสาย", "ช่วงสาย"},
	{"สาย", "ช่วงสาย"},
	{"ตอนบ่าย", "ช่วงบ่าย"},
	{"บ่าย", "ช่วงบ่าย"},
	{"ตอนเย็น", "ช่วงเย็น"},
	{"เย็น", "ช่วงเย็น"},
	{"ตอนค่ำ", "ช่วงค่ำ"},
	{"ค่ำ", "ช่วงค่ำ"},
	{"ตอนดึก", "ช่วงดึก"},
	{"ดึก", "ช่วงดึก"},

	// clock times
	{"เที่ยง", "12:00"},
	{"เที่ยงคืน", "00:00"},
	{"บ่ายโมง", "13:00"},
	{"บ่ายสอง", "14:00"},
	{"บ่ายสาม", "15:00"},
	{"บ่ายสี่", "16:00"},
	{"บ่ายห้า", "17:00"},
	{"หกโมงเย็น", "18:00"},
	{"หนึ่งทุ่ม", "19:00"},
	{"สองทุ่ม", "20:00"},
	{"สามทุ่ม", "21:00"},

	// people
	{"จาร", "อาจารย์"},
	{"อจ", "อาจารย์"},
	{"อ.", "อาจารย์"},
	{"บอส", "ผู้บังคับบัญชา"},
	{"หัวหน้า", "ผู้บังคับบัญชา"},

	// verbs
	{"นัดเจอ", "นัดพบ"},
	{"เจอกัน", "พบ"},
	{"ไปหา", "ไปพบ"},
	{"เข้าไปหา", "ไปพบ"},
	{"คุยงาน", "ประชุม"},
	{"เข้าไปคุย", "ประชุม"},
	{"เลื่อนนัด", "เลื่อน"},
	{"ยกเลิกนัด", "ยกเลิก"},

	// places
	{"มทร.", "มหาวิทยาลัย"},
	{"มทร", "มหาวิทยาลัย"},
	{"มอ", "มหาวิทยาลัย"},
	{"มหาลับ", "มหาวิทยาลัย"},
	{"ราชมงคลพระนคร", "มหาวิทยาลัย"},
	{"rmutp", "มหาวิทยาลัย"},
	{"ตึกเรียน", "อาคารเรียน"},
	{"ตึก", "อาคาร"},

	// faculties
	{"คณะวิศวะ", "คณะวิศวกรรมศาสตร์"},
	{"วิศวะ", "คณะวิศวกรรมศาสตร์"},
	{"คณะบริหาร", "คณะบริหารธุรกิจ"},
	{"บริหาร", "คณะบริหารธุรกิจ"},
	{"คณะไอที", "คณะเทคโนโลยีสารสนเทศ"},
	{"ไอที", "คณะเทคโนโลยีสารสนเทศ"},
}

// SplitWordCorrections rejoins words a tokenizer or a careless typist broke
// apart with whitespace.
var SplitWordCorrections = []struct {
	Left, Right string
	Joined      string
}{
	{"มหา", "ลับ", "มหาวิทยาลัย"},
	{"มหา", "ลัย", "มหาวิทยาลัย"},
	{"วิศ", "วะ", "คณะวิศวกรรมศาสตร์"},
	{"วิศว", "ะ", "คณะวิศวกรรมศาสตร์"},
	{"โรง", "บาล", "โรงพยาบาล"},
	{"ตอน", "เช้า", "ช่วงเช้า"},
	{"ตอน", "สาย", "ช่วงสาย"},
	{"ตอน", "บ่าย", "ช่วงบ่าย"},
	{"ตอน", "เย็น", "ช่วงเย็น"},
}
