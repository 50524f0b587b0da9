package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
)

// Repository is the persistence boundary of the ledger.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// LoadLedger returns the persisted ledger. A ledger that was never set up is
	// returned empty, not as an error.
	LoadLedger(ctx context.Context) (*Ledger, error)
	// ReplaceLedger atomically replaces the whole persisted ledger.
	ReplaceLedger(ctx context.Context, ledger *Ledger) error
	ResetLedger(ctx context.Context) error

	CreateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

type Service struct {
	repo  Repository
	clock jalali.Clock
}

func NewService(repo Repository, clock jalali.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// CreateParams describes a new transaction. A zero Date or Time is filled from the clock.
type CreateParams struct {
	Amount int64
	Title  string
	Type   Type
	Date   jalali.Date
	Time   *jalali.TimeOfDay
}

// SetupParams carries what the user knows when starting the ledger: the balance their
// account shows today and the transactions that balance already includes.
type SetupParams struct {
	CurrentBalance int64
	Recent         []CreateParams
}

func (p CreateParams) validate() error {
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}

	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}

	if !p.Type.Valid() {
		return ErrInvalidType
	}

	return nil
}

func (s *Service) newTransaction(p CreateParams) (*Transaction, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	date, now := jalali.Now(s.clock)
	if !p.Date.IsZero() {
		date = p.Date
	}

	if p.Time != nil {
		now = *p.Time
	}

	return &Transaction{
		ID:     uuid.NewString(),
		Amount: p.Amount,
		Title:  strings.TrimSpace(p.Title),
		Type:   p.Type,
		Date:   date,
		Time:   now,
	}, nil
}

// Ledger returns the persisted ledger. Malformed persisted data is logged and replaced
// by an empty ledger so callers can continue.
func (s *Service) Ledger(ctx context.Context) (*Ledger, error) {
	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		if errors.Is(err, ErrMalformedLedger) {
			slog.Warn("falling back to empty ledger", "error", err)
			return &Ledger{}, nil
		}

		return nil, fmt.Errorf("load ledger: %w", err)
	}

	return ledger, nil
}

// Balance returns the current balance in rials.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return 0, err
	}

	return ledger.Balance(), nil
}

// Groups returns the ledger's transactions grouped by day, newest first.
func (s *Service) Groups(ctx context.Context) ([]DayGroup, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	return Group(ledger.Transactions), nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := s.newTransaction(params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// Setup starts the ledger from the user's current balance. The initial balance is
// reconciled so that replaying the recent transactions reproduces CurrentBalance.
func (s *Service) Setup(ctx context.Context, params SetupParams) (*Ledger, error) {
	current, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	if current.SetupDone {
		return nil, ErrAlreadySetUp
	}

	recent := make([]*Transaction, 0, len(params.Recent))

	for i, p := range params.Recent {
		tx, err := s.newTransaction(p)
		if err != nil {
			return nil, fmt.Errorf("recent transaction %d: %w", i+1, err)
		}

		recent = append(recent, tx)
	}

	ledger := &Ledger{
		SetupDone:      true,
		InitialBalance: Reconcile(params.CurrentBalance, recent),
		Transactions:   recent,
	}

	if err := s.repo.ReplaceLedger(ctx, ledger); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	slog.Info("ledger set up",
		"initial_balance", ledger.InitialBalance,
		"recent", len(recent),
	)

	return ledger, nil
}

// Restore replaces the whole ledger with one read from a backup.
func (s *Service) Restore(ctx context.Context, ledger *Ledger) error {
	if err := Validate(ledger); err != nil {
		return err
	}

	restored := *ledger
	restored.SetupDone = true

	if err := s.repo.ReplaceLedger(ctx, &restored); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	return nil
}

func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.ResetLedger(ctx); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}

	return nil
}

// Validate checks a ledger read from outside the service. Ids must be present and
// unique, types known and dates constructible. Amounts are not checked.
func Validate(ledger *Ledger) error {
	if ledger == nil {
		return fmt.Errorf("%w: no ledger", ErrMalformedLedger)
	}

	seen := make(map[string]struct{}, len(ledger.Transactions))

	for i, tx := range ledger.Transactions {
		switch {
		case tx == nil:
			return fmt.Errorf("%w: transaction %d is empty", ErrMalformedLedger, i)
		case tx.ID == "":
			return fmt.Errorf("%w: transaction %d has no id", ErrMalformedLedger, i)
		case strings.TrimSpace(tx.Title) == "":
			return fmt.Errorf("%w: transaction %s: %w", ErrMalformedLedger, tx.ID, ErrEmptyTitle)
		case !tx.Type.Valid():
			return fmt.Errorf("%w: transaction %s: %w", ErrMalformedLedger, tx.ID, ErrInvalidType)
		case tx.Date.IsZero():
			return fmt.Errorf("%w: transaction %s: %w", ErrMalformedLedger, tx.ID, ErrInvalidDate)
		}

		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrMalformedLedger, tx.ID)
		}

		seen[tx.ID] = struct{}{}
	}

	return nil
}
