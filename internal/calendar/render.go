package calendar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"nadcal/internal/event"
)

const (
	cellWidth  = 18
	labelRunes = 15
)

var (
	dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	headerStyle = lipgloss.NewStyle().Bold(true).Width(cellWidth).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().
			Width(cellWidth).
			Height(MaxShown + 2).
			Border(lipgloss.NormalBorder())
	todayStyle = cellStyle.Copy().BorderForeground(lipgloss.Color("11"))
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render draws the grid as bordered text cells.
func (g Grid) Render() string {
	headers := make([]string, len(dayNames))
	for i, name := range dayNames {
		headers[i] = headerStyle.Render(name)
	}
	rows := []string{
		titleStyle.Render(fmt.Sprintf("%s %d", g.Month, g.Year)),
		lipgloss.JoinHorizontal(lipgloss.Top, headers...),
	}
	for _, week := range g.Weeks {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = renderCell(c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c Cell) string {
	if c.Day == 0 {
		return cellStyle.Render("")
	}
	lines := []string{fmt.Sprintf("%d", c.Day)}
	if c.Today {
		lines[0] += " TODAY"
	}
	for _, e := range c.Events {
		lines = append(lines, Label(e))
	}
	if c.Hidden > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("+ %d more", c.Hidden)))
	}
	style := cellStyle
	if c.Today {
		style = todayStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Label is the one-line text of an event in a day cell: its time and the
// start of its description.
func Label(e event.Event) string {
	desc := event.Value(e.Description)
	if desc == "" {
		desc = "Event"
	}
	if utf8.RuneCountInString(desc) > labelRunes {
		desc = string([]rune(desc)[:labelRunes])
	}
	return strings.TrimSpace(event.Value(e.Time) + " " + desc)
}
