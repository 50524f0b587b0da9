// Package backup reads and writes whole-ledger backup files.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

var ErrMalformedBackup = errors.New("backup file is not valid")

// File is the on-disk layout of a backup.
type File struct {
	SetupDone          *bool    `json:"setupDone,omitempty"`
	InitialBalanceRial *int64   `json:"initialBalanceRial"`
	Transactions       *[]Entry `json:"transactions"`
}

// Entry is one transaction inside a backup file.
type Entry struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// Filename returns the name a backup taken at t is saved under.
func Filename(t time.Time) string {
	return "pfm_backup_" + t.Format(time.DateOnly) + ".json"
}

func fromLedger(ledger *transaction.Ledger) File {
	entries := make([]Entry, 0, len(ledger.Transactions))

	for _, tx := range ledger.Transactions {
		entries = append(entries, Entry{
			ID:     tx.ID,
			Amount: tx.Amount,
			Title:  tx.Title,
			Type:   string(tx.Type),
			Date:   tx.Date.String(),
			Time:   tx.Time.String(),
		})
	}

	return File{
		SetupDone:          new(ledger.SetupDone),
		InitialBalanceRial: new(ledger.InitialBalance),
		Transactions:       &entries,
	}
}

// Encode writes ledger as indented JSON.
func Encode(w io.Writer, ledger *transaction.Ledger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(fromLedger(ledger)); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Decode reads a backup from r. Anything that is not a complete, valid ledger is
// reported as ErrMalformedBackup.
func Decode(r io.Reader) (*transaction.Ledger, error) {
	utf8Reader, err := newUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}

	var f File
	if err := json.NewDecoder(utf8Reader).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}

	if f.InitialBalanceRial == nil {
		return nil, fmt.Errorf("%w: missing initialBalanceRial", ErrMalformedBackup)
	}

	if f.Transactions == nil {
		return nil, fmt.Errorf("%w: transactions must be an array", ErrMalformedBackup)
	}

	ledger := &transaction.Ledger{
		SetupDone:      true,
		InitialBalance: *f.InitialBalanceRial,
		Transactions:   make([]*transaction.Transaction, 0, len(*f.Transactions)),
	}

	for i, e := range *f.Transactions {
		tx, err := e.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %w", ErrMalformedBackup, i+1, err)
		}

		ledger.Transactions = append(ledger.Transactions, tx)
	}

	if err := transaction.Validate(ledger); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}

	return ledger, nil
}

func (e Entry) toTransaction() (*transaction.Transaction, error) {
	date, err := jalali.Parse(e.Date)
	if err != nil {
		return nil, err
	}

	tod, err := jalali.ParseTimeOfDay(e.Time)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		ID:     e.ID,
		Amount: e.Amount,
		Title:  e.Title,
		Type:   transaction.Type(e.Type),
		Date:   date,
		Time:   tod,
	}, nil
}
