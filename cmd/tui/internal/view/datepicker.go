package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
)

// yearSpan is how far from the starting year the picker may move.
const yearSpan = 10

type dateField int

const (
	dateFieldYear dateField = iota
	dateFieldMonth
	dateFieldDay
)

// DateSelectedMsg is emitted when the user confirms a date.
type DateSelectedMsg struct {
	Date jalali.Date
}

// DatePicker selects a Jalali date field by field. Changing the year or month clamps
// the day to the length of the new month.
type DatePicker struct {
	date    jalali.Date
	field   dateField
	minYear int
	maxYear int
}

// NewDatePicker starts at d and allows years within yearSpan of it.
func NewDatePicker(d jalali.Date) DatePicker {
	return DatePicker{
		date:    d,
		field:   dateFieldDay,
		minYear: d.Year() - yearSpan,
		maxYear: d.Year() + yearSpan,
	}
}

// Value returns the currently selected date.
func (m DatePicker) Value() jalali.Date { return m.date }

func (m DatePicker) Update(msg tea.Msg) (DatePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "shift+tab":
		m.field = (m.field + 2) % 3
	case "right", "tab":
		m.field = (m.field + 1) % 3
	case "up", "k", "+":
		m.step(1)
	case "down", "j", "-":
		m.step(-1)
	case "enter":
		d := m.date
		return m, func() tea.Msg { return DateSelectedMsg{Date: d} }
	}

	return m, nil
}

// step moves the focused field by delta, wrapping within its range.
func (m *DatePicker) step(delta int) {
	switch m.field {
	case dateFieldYear:
		y := m.date.Year() + delta
		if y < m.minYear {
			y = m.maxYear
		} else if y > m.maxYear {
			y = m.minYear
		}

		m.date = m.date.WithYear(y)
	case dateFieldMonth:
		m.date = m.date.WithMonth(wrap(m.date.Month()+delta, 12))
	case dateFieldDay:
		n := jalali.DaysInMonth(m.date.Year(), m.date.Month())
		m.date = m.date.WithDay(wrap(m.date.Day()+delta, n))
	}
}

// wrap maps v onto [1, n].
func wrap(v, n int) int {
	return ((v-1)%n+n)%n + 1
}

func (m DatePicker) View() string {
	parts := []string{
		fmt.Sprintf("%04d", m.date.Year()),
		fmt.Sprintf("%02d %s", m.date.Month(), jalali.MonthName(m.date.Month())),
		fmt.Sprintf("%02d", m.date.Day()),
	}

	parts[m.field] = lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Render(parts[m.field])

	return fmt.Sprintf(
		"Date:\n\n  %s\n\n  %s\n\n(←/→ field, ↑/↓ change, Enter to confirm, Esc to back)",
		strings.Join(parts, " / "),
		faintStyle.Render(m.date.Label()),
	)
}
