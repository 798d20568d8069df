package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"bizdash/internal/core"
)

const transactionColumns = `id, date, reference, type, account, debit, credit, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var t core.Transaction
	err := s.Scan(&t.ID, &t.Date, &t.Reference, &t.Type, &t.Account, &t.Debit, &t.Credit, &t.CreatedAt)
	return t, err
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()
	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// ListTransactions returns transactions newest first (date desc, id desc).
// Query is a case-sensitive substring matched against reference, account or
// date; Type, when set, must match exactly.
func (r *Repository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" {
		where = append(where, `(instr(reference, ?) > 0 OR instr(account, ?) > 0 OR instr(date, ?) > 0)`)
		args = append(args, f.Query, f.Query, f.Query)
	}
	if f.Type != "" {
		where = append(where, `type = ?`)
		args = append(args, f.Type)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// AllTransactions returns the whole ledger in export order.
func (r *Repository) AllTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query all transactions: %w", err)
	}
	return collectTransactions(rows)
}

// GetTransaction returns the transaction with id, or nil when it does not exist.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return &t, nil
}

// CreateTransaction inserts t and reads the stored row back.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (*core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, reference, type, account, debit, credit)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Date, t.Reference, t.Type, t.Account, t.Debit, t.Credit)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"date", t.Date,
		"type", t.Type,
		"debit", t.Debit.String(),
		"credit", t.Credit.String())

	created, err := r.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back transaction: %w", err)
	}
	return created, nil
}

// UpdateTransaction replaces every mutable field of transaction id. A missing id
// is not an error: it returns a nil row and zero changes.
func (r *Repository) UpdateTransaction(ctx context.Context, id int64, t core.Transaction) (*core.Transaction, int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, reference = ?, type = ?, account = ?, debit = ?, credit = ?
		WHERE id = ?`,
		t.Date, t.Reference, t.Type, t.Account, t.Debit, t.Credit, id)
	if err != nil {
		return nil, 0, fmt.Errorf("update transaction %d: %w", id, err)
	}
	changes, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("rows affected: %w", err)
	}
	if changes == 0 {
		return nil, 0, nil
	}

	updated, err := r.GetTransaction(ctx, id)
	if err != nil {
		return nil, changes, err
	}
	return updated, changes, nil
}

// DeleteTransaction removes transaction id and reports how many rows went away.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	changes, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if changes > 0 {
		slog.InfoContext(ctx, "Transaction deleted", "id", id)
	}
	return changes, nil
}

// SumDebitByType totals the debit column over transactions of txType.
func (r *Repository) SumDebitByType(ctx context.Context, txType string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(debit), 0) FROM transactions WHERE type = ?`, txType).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum debit for %s: %w", txType, err)
	}
	return total, nil
}

// MonthlyDebitByType groups invoice and expense debits by "YYYY-MM" for every
// transaction dated on or after since ("YYYY-MM-DD").
func (r *Repository) MonthlyDebitByType(ctx context.Context, since string) ([]core.MonthlyAmount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date, 1, 7) AS month, type, COALESCE(SUM(debit), 0)
		FROM transactions
		WHERE date >= ? AND type IN (?, ?)
		GROUP BY month, type`,
		since, core.TypeInvoice, core.TypeExpense)
	if err != nil {
		return nil, fmt.Errorf("query monthly debit: %w", err)
	}
	defer rows.Close()

	out := []core.MonthlyAmount{}
	for rows.Next() {
		var m core.MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Type, &m.Total); err != nil {
			return nil, fmt.Errorf("scan monthly debit: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly debit: %w", err)
	}
	return out, nil
}
