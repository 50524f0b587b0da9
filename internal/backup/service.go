package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

// Service exports and restores the whole ledger.
type Service struct {
	transactions *transaction.Service
	clock        jalali.Clock
}

func NewService(txService *transaction.Service, clock jalali.Clock) *Service {
	return &Service{transactions: txService, clock: clock}
}

// Export writes the current ledger to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	ledger, err := s.transactions.Ledger(ctx)
	if err != nil {
		return err
	}

	return Encode(w, ledger)
}

// Filename names a backup taken now.
func (s *Service) Filename() string {
	return Filename(s.clock.Now())
}

// ExportFile writes the current ledger into dir and returns the created path.
func (s *Service) ExportFile(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, s.Filename())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := s.Export(ctx, f); err != nil {
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	slog.Info("backup exported", "path", path)

	return path, nil
}

// Import replaces the ledger with the backup read from r.
func (s *Service) Import(ctx context.Context, r io.Reader) (*transaction.Ledger, error) {
	ledger, err := Decode(r)
	if err != nil {
		return nil, err
	}

	if err := s.transactions.Restore(ctx, ledger); err != nil {
		return nil, err
	}

	slog.Info("backup imported",
		"initial_balance", ledger.InitialBalance,
		"transactions", len(ledger.Transactions),
	)

	return ledger, nil
}

// ImportFile is Import reading from the file at path.
func (s *Service) ImportFile(ctx context.Context, path string) (*transaction.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return s.Import(ctx, f)
}
