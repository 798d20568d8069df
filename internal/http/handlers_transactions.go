package http

import (
	"bytes"
	"net/http"

	applog "bizdash/internal/log"
)

const exportFilename = "transactions.csv"

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r, s.listMaxLimit)
	txs, err := s.store.ListTransactions(r.Context(), params.Filter())
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpList, err)
		return
	}
	OK(txs).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := ParseTransactionInput(w, r)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpCreate, err)
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), in)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpCreate, err)
		return
	}
	logWrite(r, applog.OpCreate, created.ID, 1)
	OK(created).Write(w)
}

// handleUpdateTransaction replaces a transaction. An unknown id answers
// {"success":true,"data":null,"changes":0}.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpUpdate, err)
		return
	}
	in, err := ParseTransactionInput(w, r)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpUpdate, err)
		return
	}

	updated, changes, err := s.ledger.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpUpdate, err)
		return
	}
	if changes > 0 {
		logWrite(r, applog.OpUpdate, id, changes)
	}
	NewJSONResponse().NullableData(updated).Changes(changes).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpDelete, err)
		return
	}

	changes, err := s.ledger.DeleteTransaction(r.Context(), id)
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpDelete, err)
		return
	}
	if changes > 0 {
		logWrite(r, applog.OpDelete, id, changes)
	}
	NewJSONResponse().Changes(changes).Write(w)
}

// handleExportTransactions streams the whole ledger as a CSV attachment.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.AllTransactions(r.Context())
	if err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpExport, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, txs); err != nil {
		s.fail(w, r, applog.ComponentLedger, applog.OpExport, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func logWrite(r *http.Request, op string, id, changes int64) {
	ctx := r.Context()
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogTransactionWritten(ctx, op, id, changes)
}
