package calendar

import (
	"strings"
	"testing"
	"time"

	"nadcal/internal/event"
)

func dated(id, date, clock string) event.Event {
	e := event.Event{ID: id, Slots: event.Slots{Date: event.String(date), Description: event.String("ประชุม " + id)}}
	if clock != "" {
		e.Time = event.String(clock)
	}
	return e
}

func TestMonthLayoutStartsOnMonday(t *testing.T) {
	// June 2025 starts on a Sunday and has 30 days.
	g := Month(2025, time.June, nil, time.Time{})
	if len(g.Weeks) != 6 {
		t.Fatalf("expected 6 weeks, got %d", len(g.Weeks))
	}
	if g.Weeks[0][6].Day != 1 || g.Weeks[0][5].Day != 0 {
		t.Fatalf("expected June 1 in the Sunday column, got %+v", g.Weeks[0])
	}
	last := g.Weeks[5]
	if last[0].Day != 30 || last[1].Day != 0 {
		t.Fatalf("expected June 30 alone in the last week, got %+v", last)
	}
}

func TestMonthPlacesAndCapsEvents(t *testing.T) {
	events := []event.Event{
		dated("a", "2025-06-02", "14:00"),
		dated("b", "2025-06-02", ""),
		dated("c", "2025-06-02", "09:00"),
		dated("d", "2025-06-02", "10:00"),
		dated("e", "2025-07-02", "10:00"),
		{ID: "undated"},
	}
	today := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	g := Month(2025, time.June, events, today)

	cell := g.Weeks[1][0]
	if cell.Day != 2 || !cell.Today {
		t.Fatalf("unexpected cell %+v", cell)
	}
	if len(cell.Events) != MaxShown || cell.Hidden != 2 {
		t.Fatalf("expected %d shown and 2 hidden, got %d and %d", MaxShown, len(cell.Events), cell.Hidden)
	}
	if cell.Events[0].ID != "c" || cell.Events[1].ID != "d" {
		t.Fatalf("expected events ordered by time, got %s, %s", cell.Events[0].ID, cell.Events[1].ID)
	}
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Day != 2 && len(c.Events) > 0 {
				t.Fatalf("unexpected events on day %d", c.Day)
			}
		}
	}
}

func TestLabelAndRender(t *testing.T) {
	e := dated("x", "2025-06-02", "09:00")
	e.Description = event.String("ประชุมผู้ถือหุ้นประจำปีครั้งที่หนึ่ง")
	label := Label(e)
	if !strings.HasPrefix(label, "09:00 ") {
		t.Fatalf("unexpected label %q", label)
	}
	if got := len([]rune(strings.TrimPrefix(label, "09:00 "))); got != labelRunes {
		t.Fatalf("expected description cut to %d runes, got %d", labelRunes, got)
	}
	if Label(event.Event{}) != "Event" {
		t.Fatalf("expected placeholder label, got %q", Label(event.Event{}))
	}

	out := Month(2025, time.June, []event.Event{e}, time.Time{}).Render()
	for _, want := range []string{"June 2025", "Mon", "Sun", "30", "09:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}
