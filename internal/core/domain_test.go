package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{Date: "2024-01-05", Reference: "INV-1", Type: "invoice", Account: "Sales"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		in    TransactionInput
		field string
	}{
		{"missing date", TransactionInput{Reference: "r", Type: "t", Account: "a"}, "date"},
		{"missing reference", TransactionInput{Date: "d", Type: "t", Account: "a"}, "reference"},
		{"blank type", TransactionInput{Date: "d", Reference: "r", Type: "  ", Account: "a"}, "type"},
		{"missing account", TransactionInput{Date: "d", Reference: "r", Type: "t"}, "account"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("Field = %q, want %q", ve.Field, tc.field)
			}
			if want := tc.field + " is required"; ve.Error() != want {
				t.Errorf("Error() = %q, want %q", ve.Error(), want)
			}
		})
	}
}

func TestTransactionInputDefaults(t *testing.T) {
	var in TransactionInput
	if err := json.Unmarshal([]byte(`{"date":"2024-01-05","reference":"R","type":"invoice","account":"A","debit":12.5}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tx := in.Transaction()
	if !tx.Debit.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Debit = %s, want 12.5", tx.Debit)
	}
	if !tx.Credit.IsZero() {
		t.Errorf("Credit = %s, want 0", tx.Credit)
	}
}

func TestTransactionInputKeepsText(t *testing.T) {
	in := TransactionInput{Date: "2024-01-05", Reference: " R-1 ", Type: "invoice", Account: "\tSales"}
	tx := in.Transaction()
	if tx.Reference != " R-1 " || tx.Account != "\tSales" {
		t.Fatalf("Transaction() rewrote text fields: %+v", tx)
	}
}

func TestTransactionJSONAmountsAreNumbers(t *testing.T) {
	b, err := json.Marshal(Transaction{ID: 1, Debit: decimal.NewFromInt(100), Credit: decimal.Zero})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["debit"] != float64(100) {
		t.Errorf("debit = %#v, want 100", m["debit"])
	}
}

func TestInventoryUpdateValidate(t *testing.T) {
	stock, level, status := int64(3), int64(5), "low"
	if err := (InventoryUpdate{Stock: &stock, ReorderLevel: &level, Status: &status}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []InventoryUpdate{
		{ReorderLevel: &level, Status: &status},
		{Stock: &stock, Status: &status},
		{Stock: &stock, ReorderLevel: &level},
	}
	for i, u := range bads {
		if err := u.Validate(); !IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}
