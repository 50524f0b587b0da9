package transaction

import (
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

type transactionResponse struct {
	ID          string           `json:"id"`
	Amount      int64            `json:"amount"`
	AmountToman string           `json:"amount_toman"`
	Title       string           `json:"title"`
	Type        transaction.Type `json:"type"`
	Date        jalali.Date      `json:"date"`
	Time        jalali.TimeOfDay `json:"time"`
}

type dayGroupResponse struct {
	Date         jalali.Date           `json:"date"`
	Label        string                `json:"label"`
	Total        int64                 `json:"total"`
	TotalToman   string                `json:"total_toman"`
	Transactions []transactionResponse `json:"transactions"`
}

func toResponse(tx *transaction.Transaction, tag language.Tag) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount,
		AmountToman: currency.Format(tx.Amount, tag),
		Title:       tx.Title,
		Type:        tx.Type,
		Date:        tx.Date,
		Time:        tx.Time,
	}
}

func toGroupResponseList(groups []transaction.DayGroup, tag language.Tag) []dayGroupResponse {
	resp := make([]dayGroupResponse, len(groups))

	for i, g := range groups {
		txs := make([]transactionResponse, len(g.Transactions))
		for j, tx := range g.Transactions {
			txs[j] = toResponse(tx, tag)
		}

		resp[i] = dayGroupResponse{
			Date:         g.Date,
			Label:        g.Label(),
			Total:        g.Total(),
			TotalToman:   currency.Format(g.Total(), tag),
			Transactions: txs,
		}
	}

	return resp
}
