package http

import (
	"encoding/csv"
	"io"

	"bizdash/internal/core"
)

var csvHeader = []string{"Date", "Reference", "Type", "Account", "Debit", "Credit"}

// WriteTransactionsCSV writes the ledger export. Fields containing a comma,
// quote or line break are quoted and embedded quotes are doubled.
func WriteTransactionsCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write([]string{
			t.Date,
			t.Reference,
			t.Type,
			t.Account,
			t.Debit.String(),
			t.Credit.String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
