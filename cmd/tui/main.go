package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/hesab/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/hesab/internal/backup"
	"github.com/MrJamesThe3rd/hesab/internal/config"
	"github.com/MrJamesThe3rd/hesab/internal/database"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
	txStore "github.com/MrJamesThe3rd/hesab/internal/transaction/store"
)

type model struct {
	cfg           *config.Config
	txService     *transaction.Service
	backupService *backup.Service
	money         view.Money

	currentView View
	balance     int64

	setupView  view.SetupModel
	ledgerView view.LedgerModel
	backupView view.BackupModel
}

type View int

const (
	ViewMenu   View = 0
	ViewSetup  View = 1
	ViewLedger View = 2
	ViewBackup View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db), jalali.SystemClock)
	backupSvc := backup.NewService(txSvc, jalali.SystemClock)

	money := view.NewMoney(cfg.Language())

	ctx, cancel := view.DbCtx()
	defer cancel()

	ledger, err := txSvc.Ledger(ctx)
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	m := model{
		cfg:           cfg,
		txService:     txSvc,
		backupService: backupSvc,
		money:         money,
		currentView:   ViewMenu,
		balance:       ledger.Balance(),
		setupView:     view.NewSetupModel(txSvc, jalali.SystemClock, money),
		ledgerView:    view.NewLedgerModel(txSvc, jalali.SystemClock, money),
		backupView:    view.NewBackupModel(backupSvc, cfg.Backup.Dir, money),
	}

	if !ledger.SetupDone {
		m.currentView = ViewSetup
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewSetup {
		return m.setupView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.txService, jalali.SystemClock, m.money)

				return m, m.ledgerView.Init()
			case "2":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.backupService, m.cfg.Backup.Dir, m.money)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, m.refreshBalanceCmd()
	case view.SetupDoneMsg:
		m.balance = msg.Ledger.Balance()
		m.currentView = ViewLedger
		m.ledgerView = view.NewLedgerModel(m.txService, jalali.SystemClock, m.money)

		return m, m.ledgerView.Init()
	case view.ResetDoneMsg:
		m.currentView = ViewSetup
		m.setupView = view.NewSetupModel(m.txService, jalali.SystemClock, m.money)

		return m, m.setupView.Init()
	case view.LedgerChangedMsg:
		return m, m.refreshBalanceCmd()
	case balanceMsg:
		m.balance = int64(msg)
		return m, nil
	}

	switch m.currentView {
	case ViewSetup:
		var newModel tea.Model
		newModel, cmd = m.setupView.Update(msg)
		m.setupView = newModel.(view.SetupModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

type balanceMsg int64

func (m model) refreshBalanceCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.DbCtx()
		defer cancel()

		balance, err := m.txService.Balance(ctx)
		if err != nil {
			slog.Error("failed to load balance", "error", err)
			return nil
		}

		return balanceMsg(balance)
	}
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + "\n\n" +
				"Balance: " + m.money.Balance(m.balance) + "\n\n" +
				"1. Ledger\n" +
				"2. Backup\n\n" +
				"q. Quit",
		)
	case ViewSetup:
		return m.setupView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewBackup:
		return m.backupView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
