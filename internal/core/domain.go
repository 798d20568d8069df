package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction types that feed the dashboard aggregates.
const (
	TypeInvoice = "invoice"
	TypeExpense = "expense"
)

// DefaultInventoryStatus is the status of an inventory item that was never updated.
const DefaultInventoryStatus = "ok"

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	// Transaction is a dated ledger entry.
	Transaction struct {
		ID        int64           `json:"id"`
		Date      string          `json:"date"`
		Reference string          `json:"reference"`
		Type      string          `json:"type"`
		Account   string          `json:"account"`
		Debit     decimal.Decimal `json:"debit"`
		Credit    decimal.Decimal `json:"credit"`
		CreatedAt string          `json:"created_at"`
	}

	InventoryItem struct {
		ID           int64  `json:"id"`
		SKU          string `json:"sku"`
		Name         string `json:"name"`
		Stock        int64  `json:"stock"`
		ReorderLevel int64  `json:"reorder_level"`
		Status       string `json:"status"`
	}

	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// CategorySale is the sales amount of one category in one month (YYYY-MM).
	CategorySale struct {
		ID         int64           `json:"id"`
		CategoryID int64           `json:"category_id"`
		Month      string          `json:"month"`
		Amount     decimal.Decimal `json:"amount"`
	}
)

// TransactionInput is the request schema for creating or replacing a transaction.
// Debit and credit are optional and default to zero.
type TransactionInput struct {
	Date      string              `json:"date"`
	Reference string              `json:"reference"`
	Type      string              `json:"type"`
	Account   string              `json:"account"`
	Debit     decimal.NullDecimal `json:"debit"`
	Credit    decimal.NullDecimal `json:"credit"`
}

// Validate checks that every required field is present.
func (in TransactionInput) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"date", in.Date},
		{"reference", in.Reference},
		{"type", in.Type},
		{"account", in.Account},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return Required(f.name)
		}
	}
	return nil
}

// Transaction returns the ledger entry described by the input, with zero
// amounts for omitted debit or credit. Text fields are kept as submitted.
func (in TransactionInput) Transaction() Transaction {
	t := Transaction{
		Date:      in.Date,
		Reference: in.Reference,
		Type:      in.Type,
		Account:   in.Account,
		Debit:     decimal.Zero,
		Credit:    decimal.Zero,
	}
	if in.Debit.Valid {
		t.Debit = in.Debit.Decimal
	}
	if in.Credit.Valid {
		t.Credit = in.Credit.Decimal
	}
	return t
}

// InventoryUpdate is the request schema for overwriting an item's mutable fields.
// All three fields must be supplied.
type InventoryUpdate struct {
	Stock        *int64  `json:"stock"`
	ReorderLevel *int64  `json:"reorder_level"`
	Status       *string `json:"status"`
}

func (u InventoryUpdate) Validate() error {
	if u.Stock == nil {
		return Required("stock")
	}
	if u.ReorderLevel == nil {
		return Required("reorder_level")
	}
	if u.Status == nil || strings.TrimSpace(*u.Status) == "" {
		return Required("status")
	}
	return nil
}
