package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateAdd
	ledgerStateConfirmDelete
	ledgerStateConfirmReset
)

// dayItem is the header row of a day group.
type dayItem struct {
	group transaction.DayGroup
}

func (i dayItem) FilterValue() string { return i.group.Date.String() }

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) FilterValue() string { return i.tx.Title }

type LedgerModel struct {
	CommonModel
	txService *transaction.Service
	clock     jalali.Clock
	money     Money

	state   ledgerState
	list    list.Model
	entry   EntryForm
	form    *huh.Form
	confirm *bool
	target  *transaction.Transaction

	ledger  *transaction.Ledger
	loading bool
	err     error
	status  string
}

func NewLedgerModel(txSvc *transaction.Service, clock jalali.Clock, money Money) LedgerModel {
	l := list.New([]list.Item{}, ledgerDelegate{money: money}, 80, 20)
	l.Title = "Transactions"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return LedgerModel{
		txService: txSvc,
		clock:     clock,
		money:     money,
		list:      l,
		loading:   true,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerStateAdd:
		return "Esc: cancel"
	case ledgerStateConfirmDelete, ledgerStateConfirmReset:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | R: reset | r: refresh | /: filter"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.ledger = msg.ledger
		m.list.SetItems(toItems(transaction.Group(msg.ledger.Transactions)))

		return m, nil

	case ledgerSavedMsg:
		m.state = ledgerStateBrowse
		m.form = nil
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, tea.Batch(m.loadCmd(), ledgerChanged)

	case EntryReadyMsg:
		m.status = "Saving..."
		return m, m.createCmd(msg.Params)

	case EntryCancelledMsg:
		m.state = ledgerStateBrowse
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10)

		return m, nil
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	case ledgerStateAdd:
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)

		return m, cmd
	case ledgerStateConfirmDelete, ledgerStateConfirmReset:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			date, now := jalali.Now(m.clock)
			m.entry = NewEntryForm(date, now)
			m.state = ledgerStateAdd
			m.status = ""

			return m, m.entry.Init()
		case "x", "delete":
			item, ok := m.list.SelectedItem().(txItem)
			if !ok {
				return m, nil
			}

			m.target = item.tx

			return m.askConfirm(ledgerStateConfirmDelete, fmt.Sprintf("Delete %q (%s)?", item.tx.Title, m.money.Amount(item.tx.Amount)))
		case "R":
			m.target = nil
			return m.askConfirm(ledgerStateConfirmReset, "Erase the whole ledger? This cannot be undone.")
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m LedgerModel) askConfirm(state ledgerState, title string) (tea.Model, tea.Cmd) {
	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(m.confirm),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = state

	return m, m.form.Init()
}

func (m LedgerModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ledgerStateBrowse
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.state = ledgerStateBrowse
		m.form = nil

		return m, nil
	}

	if m.state == ledgerStateConfirmReset {
		return m, m.resetCmd()
	}

	return m, m.deleteCmd(m.target)
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := "Balance: " + m.money.Balance(m.ledger.Balance())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(header),
		m.list.View(),
	)

	switch m.state {
	case ledgerStateAdd:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.entry.View())
	case ledgerStateConfirmDelete, ledgerStateConfirmReset:
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.form.View())
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func toItems(groups []transaction.DayGroup) []list.Item {
	var items []list.Item

	for _, g := range groups {
		items = append(items, dayItem{group: g})
		for _, tx := range g.Transactions {
			items = append(items, txItem{tx: tx})
		}
	}

	return items
}

// Messages

type ledgerLoadedMsg struct {
	ledger *transaction.Ledger
	err    error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ledger, err := m.txService.Ledger(ctx)

		return ledgerLoadedMsg{ledger: ledger, err: err}
	}
}

type ledgerSavedMsg struct {
	status string
	err    error
}

func (m LedgerModel) createCmd(params transaction.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, params)
		if err != nil {
			return ledgerSavedMsg{err: err}
		}

		return ledgerSavedMsg{status: fmt.Sprintf("Added %q.", tx.Title)}
	}
}

func (m LedgerModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Delete(ctx, tx.ID); err != nil {
			return ledgerSavedMsg{err: err}
		}

		return ledgerSavedMsg{status: fmt.Sprintf("Deleted %q.", tx.Title)}
	}
}

func (m LedgerModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Reset(ctx); err != nil {
			return ledgerSavedMsg{err: err}
		}

		return ResetDoneMsg{}
	}
}

// ResetDoneMsg is emitted once the ledger has been erased.
type ResetDoneMsg struct{}

// ledgerDelegate renders day headers and transactions in the list.
type ledgerDelegate struct {
	money Money
}

func (d ledgerDelegate) Height() int                             { return 1 }
func (d ledgerDelegate) Spacing() int                            { return 0 }
func (d ledgerDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d ledgerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	switch i := item.(type) {
	case dayItem:
		total := faintStyle.Render("(" + d.money.Amount(i.group.Total()) + ")")
		fmt.Fprintf(w, "%s  %s", lipgloss.NewStyle().Bold(true).Underline(true).Render(i.group.Label()), total)
	case txItem:
		line := fmt.Sprintf("%s  %s  %s", i.tx.Time, d.money.Signed(i.tx), i.tx.Title)
		if index == m.Index() {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}

		fmt.Fprintf(w, "  %s", line)
	}
}
