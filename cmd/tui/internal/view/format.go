package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

const dbTimeout = 5 * time.Second

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Money renders rial amounts as grouped tomans for one locale.
type Money struct {
	tag  language.Tag
	unit string
}

func NewMoney(tag language.Tag) Money {
	unit := "toman"
	if base, _ := tag.Base(); base.String() == "fa" {
		unit = "تومان"
	}

	return Money{tag: tag, unit: unit}
}

func (m Money) Amount(rial int64) string {
	return currency.Format(rial, m.tag) + " " + m.unit
}

// Signed renders a transaction amount coloured by its direction.
func (m Money) Signed(tx *transaction.Transaction) string {
	if tx.Type == transaction.TypeIncome {
		return incomeStyle.Render("+" + m.Amount(tx.Amount))
	}

	return expenseStyle.Render("-" + m.Amount(tx.Amount))
}

// Balance colours a balance red when it is negative.
func (m Money) Balance(rial int64) string {
	if rial < 0 {
		return expenseStyle.Render(m.Amount(rial))
	}

	return incomeStyle.Render(m.Amount(rial))
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
