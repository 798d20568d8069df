package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"bizdash/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreate(t *testing.T, repo *Repository, tx core.Transaction) *core.Transaction {
	t.Helper()
	created, err := repo.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	return created
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()
	if err := second.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestCreateTransaction_DefaultsAndIncreasingIDs(t *testing.T) {
	repo := newTestRepo(t)

	a := mustCreate(t, repo, core.Transaction{Date: "2024-01-05", Reference: "INV-1", Type: "invoice", Account: "Sales", Debit: dec("100"), Credit: decimal.Zero})
	b := mustCreate(t, repo, core.Transaction{Date: "2024-01-06", Reference: "EXP-1", Type: "expense", Account: "Rent", Debit: dec("40.25"), Credit: decimal.Zero})

	if a.ID <= 0 || b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}
	if a.CreatedAt == "" {
		t.Error("created_at not assigned")
	}
	if !b.Debit.Equal(dec("40.25")) {
		t.Errorf("Debit = %s, want 40.25", b.Debit)
	}
	if !b.Credit.IsZero() {
		t.Errorf("Credit = %s, want 0", b.Credit)
	}
}

func TestListTransactions_OrderAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, core.Transaction{Date: "2024-01-05", Reference: "INV-1", Type: "invoice", Account: "Sales"})
	mustCreate(t, repo, core.Transaction{Date: "2024-02-10", Reference: "EXP-1", Type: "expense", Account: "Rent"})
	mustCreate(t, repo, core.Transaction{Date: "2024-02-10", Reference: "INV-2", Type: "invoice", Account: "Sales"})

	all, err := repo.ListTransactions(ctx, core.TransactionFilter{Limit: 100})
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	gotRefs := []string{}
	for _, tx := range all {
		gotRefs = append(gotRefs, tx.Reference)
	}
	wantRefs := []string{"INV-2", "EXP-1", "INV-1"}
	if len(gotRefs) != len(wantRefs) {
		t.Fatalf("got %v, want %v", gotRefs, wantRefs)
	}
	for i := range wantRefs {
		if gotRefs[i] != wantRefs[i] {
			t.Fatalf("order = %v, want %v", gotRefs, wantRefs)
		}
	}

	tests := []struct {
		name   string
		filter core.TransactionFilter
		want   int
	}{
		{"type filter", core.TransactionFilter{Type: "invoice", Limit: 100}, 2},
		{"query on reference", core.TransactionFilter{Query: "EXP", Limit: 100}, 1},
		{"query on account", core.TransactionFilter{Query: "Sal", Limit: 100}, 2},
		{"query on date", core.TransactionFilter{Query: "2024-02", Limit: 100}, 2},
		{"query is case sensitive", core.TransactionFilter{Query: "sales", Limit: 100}, 0},
		{"query and type combine", core.TransactionFilter{Query: "2024-02", Type: "expense", Limit: 100}, 1},
		{"limit", core.TransactionFilter{Limit: 1}, 1},
		{"offset past end", core.TransactionFilter{Limit: 10, Offset: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListTransactions(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions() error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := mustCreate(t, repo, core.Transaction{Date: "2024-01-05", Reference: "INV-1", Type: "invoice", Account: "Sales", Debit: dec("10")})

	updated, changes, err := repo.UpdateTransaction(ctx, created.ID, core.Transaction{
		Date: "2024-01-07", Reference: "INV-1b", Type: "invoice", Account: "Sales", Debit: dec("12"), Credit: dec("1"),
	})
	if err != nil {
		t.Fatalf("UpdateTransaction() error: %v", err)
	}
	if changes != 1 || updated == nil {
		t.Fatalf("changes = %d, row = %v", changes, updated)
	}
	if updated.Reference != "INV-1b" || !updated.Debit.Equal(dec("12")) || !updated.Credit.Equal(dec("1")) {
		t.Errorf("unexpected row: %+v", updated)
	}
	if updated.ID != created.ID || updated.CreatedAt != created.CreatedAt {
		t.Errorf("id or created_at changed: %+v", updated)
	}

	missing, changes, err := repo.UpdateTransaction(ctx, 9999, core.Transaction{Date: "d", Reference: "r", Type: "t", Account: "a"})
	if err != nil {
		t.Fatalf("UpdateTransaction(missing) error: %v", err)
	}
	if changes != 0 || missing != nil {
		t.Errorf("missing id: changes = %d, row = %v", changes, missing)
	}
}

func TestDeleteTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := mustCreate(t, repo, core.Transaction{Date: "2024-01-05", Reference: "R", Type: "invoice", Account: "A"})

	changes, err := repo.DeleteTransaction(ctx, created.ID)
	if err != nil || changes != 1 {
		t.Fatalf("DeleteTransaction() = %d, %v", changes, err)
	}
	changes, err = repo.DeleteTransaction(ctx, created.ID)
	if err != nil || changes != 0 {
		t.Fatalf("DeleteTransaction(again) = %d, %v", changes, err)
	}
}

func TestSumsOnEmptyStoreAreZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rev, err := repo.SumDebitByType(ctx, core.TypeInvoice)
	if err != nil || !rev.IsZero() {
		t.Fatalf("SumDebitByType() = %s, %v", rev, err)
	}
	stock, err := repo.TotalStock(ctx)
	if err != nil || stock != 0 {
		t.Fatalf("TotalStock() = %d, %v", stock, err)
	}
}

func TestMonthlyDebitByType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreate(t, repo, core.Transaction{Date: "2023-12-31", Reference: "old", Type: "invoice", Account: "A", Debit: dec("999")})
	mustCreate(t, repo, core.Transaction{Date: "2024-01-05", Reference: "a", Type: "invoice", Account: "A", Debit: dec("100")})
	mustCreate(t, repo, core.Transaction{Date: "2024-01-20", Reference: "b", Type: "invoice", Account: "A", Debit: dec("50.5")})
	mustCreate(t, repo, core.Transaction{Date: "2024-02-10", Reference: "c", Type: "expense", Account: "B", Debit: dec("40")})
	mustCreate(t, repo, core.Transaction{Date: "2024-02-11", Reference: "d", Type: "transfer", Account: "C", Debit: dec("7")})

	rows, err := repo.MonthlyDebitByType(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("MonthlyDebitByType() error: %v", err)
	}
	got := map[string]decimal.Decimal{}
	for _, r := range rows {
		got[r.Month+"/"+r.Type] = r.Total
	}
	if len(got) != 2 {
		t.Fatalf("rows = %v", got)
	}
	if !got["2024-01/invoice"].Equal(dec("150.5")) {
		t.Errorf("2024-01 invoice = %s, want 150.5", got["2024-01/invoice"])
	}
	if !got["2024-02/expense"].Equal(dec("40")) {
		t.Errorf("2024-02 expense = %s, want 40", got["2024-02/expense"])
	}
}

func TestInventory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, it := range []core.InventoryItem{
		{SKU: "A-1", Name: "Widget", Stock: 12, ReorderLevel: 5},
		{SKU: "B-2", Name: "Gadget", Stock: 3, ReorderLevel: 4, Status: "low"},
		{SKU: "C-3", Name: "Doohickey", Stock: 7},
	} {
		if err := repo.UpsertInventoryItem(ctx, it); err != nil {
			t.Fatalf("UpsertInventoryItem() error: %v", err)
		}
	}

	items, err := repo.ListInventory(ctx)
	if err != nil {
		t.Fatalf("ListInventory() error: %v", err)
	}
	if len(items) != 3 || items[0].SKU != "B-2" || items[2].SKU != "A-1" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[1].Status != core.DefaultInventoryStatus {
		t.Errorf("default status = %q", items[1].Status)
	}

	total, err := repo.TotalStock(ctx)
	if err != nil || total != 22 {
		t.Fatalf("TotalStock() = %d, %v", total, err)
	}

	updated, changes, err := repo.UpdateInventory(ctx, items[0].ID, 0, 10, "reorder")
	if err != nil || changes != 1 {
		t.Fatalf("UpdateInventory() = %d, %v", changes, err)
	}
	if updated.Stock != 0 || updated.ReorderLevel != 10 || updated.Status != "reorder" {
		t.Errorf("unexpected row: %+v", updated)
	}

	none, changes, err := repo.UpdateInventory(ctx, 4242, 1, 1, "ok")
	if err != nil || changes != 0 || none != nil {
		t.Fatalf("UpdateInventory(missing) = %v, %d, %v", none, changes, err)
	}
}

func TestCategoryTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tools, _ := repo.UpsertCategory(ctx, "Tools")
	paint, _ := repo.UpsertCategory(ctx, "Paint")
	garden, _ := repo.UpsertCategory(ctx, "Garden")

	if again, err := repo.UpsertCategory(ctx, "Tools"); err != nil || again != tools {
		t.Fatalf("UpsertCategory(existing) = %d, %v; want %d", again, err, tools)
	}

	for _, s := range []struct {
		cat    int64
		month  string
		amount string
	}{
		{tools, "2024-03", "100"},
		{tools, "2024-03", "25.5"},
		{paint, "2024-03", "300"},
		{garden, "2024-02", "80"},
	} {
		if _, err := repo.AddCategorySale(ctx, s.cat, s.month, dec(s.amount)); err != nil {
			t.Fatalf("AddCategorySale() error: %v", err)
		}
	}

	totals, err := repo.CategoryTotals(ctx, "2024-03")
	if err != nil {
		t.Fatalf("CategoryTotals() error: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("want every category, got %+v", totals)
	}
	if totals[0].Name != "Paint" || totals[1].Name != "Tools" || totals[2].Name != "Garden" {
		t.Errorf("order = %+v", totals)
	}
	if !totals[1].Total.Equal(dec("125.5")) || !totals[2].Total.IsZero() {
		t.Errorf("totals = %+v", totals)
	}

	empty, err := repo.CategoryTotals(ctx, "1999-01")
	if err != nil {
		t.Fatalf("CategoryTotals(empty) error: %v", err)
	}
	for i, ct := range empty {
		if !ct.Total.IsZero() {
			t.Errorf("row %d total = %s, want 0", i, ct.Total)
		}
	}
	// Equal totals fall back to category id order.
	if empty[0].ID != tools || empty[1].ID != paint || empty[2].ID != garden {
		t.Errorf("tie order = %+v", empty)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.UpsertCategory(ctx, "Seasonal")
	if err != nil {
		t.Fatalf("UpsertCategory() error: %v", err)
	}
	if _, err := repo.AddCategorySale(ctx, id, "2024-03", dec("10")); err != nil {
		t.Fatalf("AddCategorySale() error: %v", err)
	}
	if n, err := repo.DeleteCategory(ctx, id); err != nil || n != 1 {
		t.Fatalf("DeleteCategory() = %d, %v", n, err)
	}
	n, err := repo.CountCategorySales(ctx, id)
	if err != nil {
		t.Fatalf("CountCategorySales() error: %v", err)
	}
	if n != 0 {
		t.Errorf("sales left after cascade: %d", n)
	}
}
