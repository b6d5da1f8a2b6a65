// Package calendar lays stored events out on a month grid.
package calendar

import (
	"sort"
	"time"

	"nadcal/internal/event"
	"nadcal/internal/timeline"
)

// MaxShown is how many events a day cell lists before collapsing the rest
// into a count.
const MaxShown = 2

type Cell struct {
	// Day is 0 for padding cells outside the month.
	Day    int
	Today  bool
	Events []event.Event
	Hidden int
}

type Grid struct {
	Year  int
	Month time.Month
	Weeks [][7]Cell
}

// Month builds the grid for year/month with weeks starting on Monday.
// Events without a date, or dated outside the month, are ignored. Within a
// day, events are ordered by time; untimed events come last.
func Month(year int, month time.Month, events []event.Event, today time.Time) Grid {
	byDay := map[int][]event.Event{}
	for _, e := range events {
		if e.Date == nil {
			continue
		}
		d, err := time.Parse(timeline.DateLayout, *e.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		byDay[d.Day()] = append(byDay[d.Day()], e)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7

	g := Grid{Year: year, Month: month}
	var week [7]Cell
	col := offset
	for day := 1; day <= days; day++ {
		dayEvents := byDay[day]
		sortByTime(dayEvents)
		cell := Cell{
			Day:   day,
			Today: today.Year() == year && today.Month() == month && today.Day() == day,
		}
		if len(dayEvents) > MaxShown {
			cell.Events = dayEvents[:MaxShown]
			cell.Hidden = len(dayEvents) - MaxShown
		} else {
			cell.Events = dayEvents
		}
		week[col] = cell
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}

func sortByTime(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Time, events[j].Time
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
}
