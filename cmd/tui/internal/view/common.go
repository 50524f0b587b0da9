package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LedgerChangedMsg is emitted after any write so other screens reload.
type LedgerChangedMsg struct{}

func ledgerChanged() tea.Msg {
	return LedgerChangedMsg{}
}
