package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

type setupState int

const (
	setupStateBalance setupState = iota
	setupStateRecent
	setupStateEntry
	setupStateSaving
)

// SetupDoneMsg is emitted once the ledger has been set up.
type SetupDoneMsg struct {
	Ledger *transaction.Ledger
}

// SetupModel asks for the balance the user's account shows today and, optionally,
// the recent transactions that balance already includes.
type SetupModel struct {
	CommonModel
	txService *transaction.Service
	clock     jalali.Clock
	money     Money

	state   setupState
	form    *huh.Form
	balance *string
	entry   EntryForm
	recent  []transaction.CreateParams
	err     error
}

func NewSetupModel(txSvc *transaction.Service, clock jalali.Clock, money Money) SetupModel {
	m := SetupModel{
		txService: txSvc,
		clock:     clock,
		money:     money,
		balance:   new(""),
	}
	m.form = m.buildBalanceForm()

	return m
}

func (m SetupModel) buildBalanceForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("balance").
				Title("Current account balance (toman)").
				Description("Negative if overdrawn.").
				Placeholder("1,000,000").
				Value(m.balance).
				Validate(func(s string) error {
					_, err := currency.ParseToman(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SetupModel) Title() string { return "Setup" }

func (m SetupModel) ShortHelp() string {
	switch m.state {
	case setupStateRecent:
		return "a: add recent transaction | x: remove last | Enter: finish | Esc: back"
	case setupStateEntry:
		return "Esc: cancel"
	}

	return "Enter: continue | Ctrl+C: quit"
}

func (m SetupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EntryReadyMsg:
		m.recent = append(m.recent, msg.Params)
		m.state = setupStateRecent

		return m, nil

	case EntryCancelledMsg:
		m.state = setupStateRecent
		return m, nil

	case setupResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = setupStateRecent

			return m, nil
		}

		return m, func() tea.Msg { return SetupDoneMsg{Ledger: msg.ledger} }
	}

	switch m.state {
	case setupStateBalance:
		return m.updateBalance(msg)
	case setupStateRecent:
		return m.updateRecent(msg)
	case setupStateEntry:
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m SetupModel) updateBalance(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = setupStateRecent

	return m, nil
}

func (m SetupModel) updateRecent(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = setupStateBalance
		m.form = m.buildBalanceForm()

		return m, m.form.Init()
	case "a":
		date, now := jalali.Now(m.clock)
		m.entry = NewEntryForm(date, now)
		m.state = setupStateEntry
		m.err = nil

		return m, m.entry.Init()
	case "x":
		if len(m.recent) > 0 {
			m.recent = m.recent[:len(m.recent)-1]
		}
	case "enter":
		m.state = setupStateSaving
		return m, m.setupCmd()
	}

	return m, nil
}

func (m SetupModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Welcome! Let's set up your ledger.")

	switch m.state {
	case setupStateBalance:
		return lipgloss.NewStyle().Padding(1).Render(title + "\n\n" + m.form.View())
	case setupStateEntry:
		return lipgloss.NewStyle().Padding(1).Render(title + "\n\n" + m.entry.View())
	case setupStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\nCurrent balance: %s toman\n\n", title, *m.balance)
	b.WriteString("Recent transactions already included in that balance:\n\n")

	if len(m.recent) == 0 {
		b.WriteString(faintStyle.Render("  none") + "\n")
	}

	for _, p := range m.recent {
		tx := &transaction.Transaction{Amount: p.Amount, Type: p.Type}
		fmt.Fprintf(&b, "  %s  %s  %s\n", p.Date, m.money.Signed(tx), p.Title)
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	b.WriteString("\n" + faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

type setupResultMsg struct {
	ledger *transaction.Ledger
	err    error
}

func (m SetupModel) setupCmd() tea.Cmd {
	rial, _ := currency.ParseToman(*m.balance)
	params := transaction.SetupParams{
		CurrentBalance: rial,
		Recent:         append([]transaction.CreateParams(nil), m.recent...),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ledger, err := m.txService.Setup(ctx, params)

		return setupResultMsg{ledger: ledger, err: err}
	}
}
