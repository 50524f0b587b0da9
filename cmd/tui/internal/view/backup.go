package view

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/hesab/internal/backup"
)

type backupState int

const (
	backupStateChoose backupState = iota
	backupStatePath
	backupStateFilePick
	backupStateConfirm
	backupStateWorking
	backupStateResult
)

const backupTimeout = 30 * time.Second

// backupValues holds form bindings shared across model copies.
type backupValues struct {
	dir     string
	confirm bool
}

type BackupModel struct {
	CommonModel
	backupService *backup.Service
	money         Money

	state      backupState
	cursor     int
	form       *huh.Form
	filePicker filepicker.Model
	spinner    spinner.Model
	values     *backupValues
	selected   string

	status string
	err    error
}

var backupOptions = []string{"Export backup", "Import backup"}

func NewBackupModel(svc *backup.Service, dir string, money Money) BackupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fp := filepicker.New()
	fp.CurrentDirectory, _ = filepath.Abs(dir)
	fp.AllowedTypes = []string{".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return BackupModel{
		backupService: svc,
		money:         money,
		spinner:       s,
		filePicker:    fp,
		values:        &backupValues{dir: dir},
	}
}

func (m BackupModel) Title() string { return "Backup" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateResult:
		return "Esc: back"
	case backupStateWorking:
		return "Working..."
	}

	return "Esc: back | Enter: select"
}

func (m BackupModel) Init() tea.Cmd {
	return nil
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != backupStateWorking {
			return m.handleEsc()
		}

	case backupResultMsg:
		m.state = backupStateResult
		m.err = msg.err
		m.status = msg.status

		if msg.err == nil && msg.imported {
			return m, ledgerChanged
		}

		return m, nil
	}

	switch m.state {
	case backupStateChoose:
		return m.updateChoose(msg)
	case backupStatePath:
		return m.updatePath(msg)
	case backupStateFilePick:
		return m.updateFilePick(msg)
	case backupStateConfirm:
		return m.updateConfirm(msg)
	case backupStateWorking:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m BackupModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case backupStateChoose:
		return m, Back
	case backupStateConfirm:
		m.state = backupStateFilePick
		return m, m.filePicker.Init()
	}

	m.state = backupStateChoose
	m.err = nil
	m.status = ""

	return m, nil
}

func (m BackupModel) updateChoose(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(backupOptions)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.cursor == 0 {
			m.form = m.buildPathForm()
			m.state = backupStatePath

			return m, m.form.Init()
		}

		m.state = backupStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m BackupModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder(".").
				Value(&m.values.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = backupStateWorking

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(m.values.dir))
}

func (m BackupModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.selected = path
		m.values.confirm = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Replace the current ledger with this backup? This cannot be undone.").
					Affirmative("Replace").
					Negative("Cancel").
					Value(&m.values.confirm),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = backupStateConfirm

		return m, m.form.Init()
	}

	return m, cmd
}

func (m BackupModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.values.confirm {
		m.state = backupStateChoose
		return m, nil
	}

	m.state = backupStateWorking

	return m, tea.Batch(m.spinner.Tick, m.importCmd(m.selected))
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStateChoose:
		s := "Backup:\n\n"

		for i, opt := range backupOptions {
			cursor := " "
			if i == m.cursor {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %s\n", cursor, opt)
		}

		return lipgloss.NewStyle().Padding(2).Render(s + "\n(Enter to select, Esc to back)")

	case backupStatePath, backupStateConfirm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case backupStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select backup file:\n\n%s", m.filePicker.View()),
		)

	case backupStateWorking:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Working...")

	case backupStateResult:
		return m.viewResult()
	}

	return ""
}

func (m BackupModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type backupResultMsg struct {
	status   string
	imported bool
	err      error
}

func (m BackupModel) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		path, err := m.backupService.ExportFile(ctx, dir)
		if err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{status: fmt.Sprintf("Backup saved to %s", path)}
	}
}

func (m BackupModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		ledger, err := m.backupService.ImportFile(ctx, path)
		if err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{
			status:   fmt.Sprintf("Restored %d transactions. Balance: %s", len(ledger.Transactions), m.money.Amount(ledger.Balance())),
			imported: true,
		}
	}
}
