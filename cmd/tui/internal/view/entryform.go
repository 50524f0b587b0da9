package view

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

type entryState int

const (
	entryStateForm entryState = iota
	entryStateDate
)

// EntryReadyMsg carries the parameters of a transaction the user finished entering.
type EntryReadyMsg struct {
	Params transaction.CreateParams
}

// EntryCancelledMsg is emitted when the user backs out of the form.
type EntryCancelledMsg struct{}

// EntryForm collects one transaction: a form for title, amount, type and time, then
// a date picker. It does not save anything.
type EntryForm struct {
	state  entryState
	form   *huh.Form
	picker DatePicker

	values *entryValues
}

// entryValues is shared by every copy of the model so the form's bindings survive
// bubbletea passing models by value.
type entryValues struct {
	title  string
	amount string
	typ    transaction.Type
	time   string
}

// NewEntryForm starts a form defaulting to the given date and time.
func NewEntryForm(date jalali.Date, now jalali.TimeOfDay) EntryForm {
	m := EntryForm{
		picker: NewDatePicker(date),
		values: &entryValues{typ: transaction.TypeExpense, time: now.String()},
	}
	m.form = m.buildForm()

	return m
}

func (m EntryForm) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.values.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount (toman)").
				Placeholder("150,000").
				Value(&m.values.amount).
				Validate(validateAmount),

			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&m.values.typ),

			huh.NewInput().
				Key("time").
				Title("Time").
				Placeholder("HH:MM").
				Value(&m.values.time).
				Validate(func(s string) error {
					_, err := jalali.ParseTimeOfDay(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func validateAmount(s string) error {
	rial, err := currency.ParseToman(s)
	if err != nil {
		return err
	}

	if rial <= 0 {
		return transaction.ErrInvalidAmount
	}

	return nil
}

func (m EntryForm) Init() tea.Cmd {
	return m.form.Init()
}

func (m EntryForm) Update(msg tea.Msg) (EntryForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state == entryStateDate {
			m.state = entryStateForm
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return EntryCancelledMsg{} }
	}

	if m.state == entryStateDate {
		if selected, ok := msg.(DateSelectedMsg); ok {
			return m, m.readyCmd(selected.Date)
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = entryStateDate

	return m, nil
}

func (m EntryForm) readyCmd(date jalali.Date) tea.Cmd {
	// Both were validated by the form.
	rial, _ := currency.ParseToman(m.values.amount)
	tod, _ := jalali.ParseTimeOfDay(m.values.time)

	params := transaction.CreateParams{
		Amount: rial,
		Title:  m.values.title,
		Type:   m.values.typ,
		Date:   date,
		Time:   &tod,
	}

	return func() tea.Msg { return EntryReadyMsg{Params: params} }
}

func (m EntryForm) View() string {
	if m.state == entryStateDate {
		summary := faintStyle.Render(m.values.title + "  " + m.values.amount + " تومان")
		return summary + "\n\n" + m.picker.View()
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render("New Transaction\n\n" + m.form.View())
}
