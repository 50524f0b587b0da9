package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

const (
	keySetupDone      = "setup_done"
	keyInitialBalance = "initial_balance_rial"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, amount, title, type, year, month, day, hour, minute
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx               transaction.Transaction
		typeStr          string
		year, month, day int
		hour, minute     int
	)

	if err := s.Scan(&tx.ID, &tx.Amount, &tx.Title, &typeStr, &year, &month, &day, &hour, &minute); err != nil {
		return nil, err
	}

	date, err := jalali.NewDate(year, month, day)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction %s: %w", transaction.ErrMalformedLedger, tx.ID, err)
	}

	tod, err := jalali.NewTimeOfDay(hour, minute)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction %s: %w", transaction.ErrMalformedLedger, tx.ID, err)
	}

	tx.Type = transaction.Type(typeStr)
	tx.Date = date
	tx.Time = tod

	return &tx, nil
}

const selectTransactionColumns = `id, amount, title, type, year, month, day, hour, minute`

func (s *Store) LoadLedger(ctx context.Context) (*transaction.Ledger, error) {
	ledger := &transaction.Ledger{}

	settings, err := s.settings(ctx)
	if err != nil {
		return nil, err
	}

	if v, ok := settings[keySetupDone]; ok {
		if ledger.SetupDone, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%w: %s=%q", transaction.ErrMalformedLedger, keySetupDone, v)
		}
	}

	if v, ok := settings[keyInitialBalance]; ok {
		if ledger.InitialBalance, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: %s=%q", transaction.ErrMalformedLedger, keyInitialBalance, v)
		}
	}

	query := `SELECT ` + selectTransactionColumns + ` FROM transactions ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			if errors.Is(err, transaction.ErrMalformedLedger) {
				return nil, err
			}

			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		ledger.Transactions = append(ledger.Transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	if err := transaction.Validate(ledger); err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *Store) settings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM ledger_settings`)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string, 2)

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}

		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating setting rows: %w", err)
	}

	return settings, nil
}

func putSetting(ctx context.Context, q querier, key, value string) error {
	query := `
		INSERT INTO ledger_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := q.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}

	return nil
}

func insertTransaction(ctx context.Context, q querier, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, amount, title, type, year, month, day, hour, minute, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	_, err := q.ExecContext(ctx, query,
		tx.ID,
		tx.Amount,
		tx.Title,
		tx.Type,
		tx.Date.Year(),
		tx.Date.Month(),
		tx.Date.Day(),
		tx.Time.Hour(),
		tx.Time.Minute(),
	)
	if err != nil {
		return fmt.Errorf("creating transaction %s: %w", tx.ID, err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return insertTransaction(ctx, s.db, tx)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// ledgerLockKey identifies the advisory lock serialising whole-ledger writes.
func ledgerLockKey() int64 {
	h := fnv.New64a()
	h.Write([]byte("hesab:ledger"))

	return int64(h.Sum64())
}

// withLedgerLock runs fn in a database transaction holding the ledger lock.
func (s *Store) withLedgerLock(ctx context.Context, fn func(*sql.Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", ledgerLockKey()); err != nil {
		return fmt.Errorf("acquiring ledger lock: %w", err)
	}

	if err := fn(dbTx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ReplaceLedger swaps the settings and every transaction for those of ledger. Readers
// see either the old ledger or the new one.
func (s *Store) ReplaceLedger(ctx context.Context, ledger *transaction.Ledger) error {
	return s.withLedgerLock(ctx, func(dbTx *sql.Tx) error {
		if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clearing transactions: %w", err)
		}

		if err := putSetting(ctx, dbTx, keySetupDone, strconv.FormatBool(ledger.SetupDone)); err != nil {
			return err
		}

		if err := putSetting(ctx, dbTx, keyInitialBalance, strconv.FormatInt(ledger.InitialBalance, 10)); err != nil {
			return err
		}

		for _, tx := range ledger.Transactions {
			if err := insertTransaction(ctx, dbTx, tx); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Store) ResetLedger(ctx context.Context) error {
	return s.withLedgerLock(ctx, func(dbTx *sql.Tx) error {
		if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clearing transactions: %w", err)
		}

		if _, err := dbTx.ExecContext(ctx, `DELETE FROM ledger_settings`); err != nil {
			return fmt.Errorf("clearing settings: %w", err)
		}

		return nil
	})
}
