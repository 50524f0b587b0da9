package transaction

import (
	"slices"

	"github.com/MrJamesThe3rd/hesab/internal/jalali"
)

// DayGroup holds the transactions recorded on a single day, newest first.
type DayGroup struct {
	Date         jalali.Date
	Transactions []*Transaction
}

// Label returns the weekday and date shown above the group.
func (g DayGroup) Label() string {
	return g.Date.Label()
}

// Total returns the net signed amount of the day.
func (g DayGroup) Total() int64 {
	return Balance(0, g.Transactions)
}

// compareNewestFirst orders by date descending, then time descending.
func compareNewestFirst(a, b *Transaction) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}

	return b.Time.Compare(a.Time)
}

// Sort returns a copy of txs ordered newest first. Entries with the same date and
// time keep their relative order.
func Sort(txs []*Transaction) []*Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, compareNewestFirst)

	return sorted
}

// Group sorts txs newest first and partitions them by date.
func Group(txs []*Transaction) []DayGroup {
	var groups []DayGroup

	for _, tx := range Sort(txs) {
		if n := len(groups); n > 0 && groups[n-1].Date == tx.Date {
			groups[n-1].Transactions = append(groups[n-1].Transactions, tx)
			continue
		}

		groups = append(groups, DayGroup{Date: tx.Date, Transactions: []*Transaction{tx}})
	}

	return groups
}
