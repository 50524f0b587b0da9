package transaction

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvalidAmount   = fmt.Errorf("%w: must be greater than zero", currency.ErrInvalidAmount)
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrInvalidDate     = errors.New("date is not a valid jalali date")
	ErrAlreadySetUp    = errors.New("ledger is already set up")
	ErrMalformedLedger = errors.New("malformed ledger data")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single recorded movement of money. It is never modified once created.
type Transaction struct {
	ID     string
	Amount int64 // Amount in rials
	Title  string
	Type   Type
	Date   jalali.Date
	Time   jalali.TimeOfDay
}

// Signed returns the amount with the sign it contributes to the balance.
func (tx *Transaction) Signed() int64 {
	if tx.Type == TypeIncome {
		return tx.Amount
	}

	return -tx.Amount
}

// Ledger is the initial balance plus every recorded transaction in insertion order.
type Ledger struct {
	SetupDone      bool
	InitialBalance int64 // Initial balance in rials, may be negative
	Transactions   []*Transaction
}

// Balance returns the current balance of the ledger.
func (l *Ledger) Balance() int64 {
	return Balance(l.InitialBalance, l.Transactions)
}

// Find returns the transaction with the given id.
func (l *Ledger) Find(id string) (*Transaction, bool) {
	for _, tx := range l.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}

	return nil, false
}
