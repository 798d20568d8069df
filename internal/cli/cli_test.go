package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"bizdash/internal/amqp"
	"bizdash/internal/core"
	"bizdash/internal/storage"
)

const sampleSeed = `
[[categories]]
name = "Paint"

  [[categories.sales]]
  month = "2024-03"
  amount = 300

  [[categories.sales]]
  month = "2024-03"
  amount = 25.5

[[categories]]
name = "Tools"

[[inventory]]
sku = "P-100"
name = "Primer"
stock = 12
reorder_level = 4

[[transactions]]
date = "2024-03-01"
reference = "INV-1"
type = "invoice"
account = "Sales"
debit = 100
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "bizdash.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestParseSeedFile(t *testing.T) {
	seed, err := ParseSeedFile(writeFile(t, "seed.toml", sampleSeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(seed.Categories) != 2 || len(seed.Categories[0].Sales) != 2 {
		t.Fatalf("unexpected categories: %+v", seed.Categories)
	}
	if seed.Inventory[0].SKU != "P-100" || seed.Inventory[0].Stock != 12 {
		t.Fatalf("unexpected inventory: %+v", seed.Inventory)
	}
	if seed.Transactions[0].Debit != 100 {
		t.Fatalf("unexpected transactions: %+v", seed.Transactions)
	}
}

func TestParseSeedFileRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad month", "[[categories]]\nname = \"X\"\n[[categories.sales]]\nmonth = \"2024-3\"\namount = 1\n", "invalid month"},
		{"missing sku", "[[inventory]]\nname = \"X\"\n", "sku is required"},
		{"missing category name", "[[categories]]\nname = \" \"\n", "name is required"},
		{"missing account", "[[transactions]]\ndate = \"2024-01-01\"\nreference = \"R\"\ntype = \"invoice\"\n", "account is required"},
		{"unknown key", "[[inventory]]\nsku = \"A\"\nname = \"X\"\ncolour = \"red\"\n", "unknown keys"},
		{"not toml", "[[inventory", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedFile(writeFile(t, "seed.toml", tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSeedApply(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seed, err := ParseSeedFile(writeFile(t, "seed.toml", sampleSeed))
	if err != nil {
		t.Fatal(err)
	}

	counts, err := seed.Apply(ctx, repo)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := SeedCounts{Categories: 2, Sales: 2, Inventory: 1, Transactions: 1}
	if counts != want {
		t.Fatalf("counts=%+v, want %+v", counts, want)
	}

	totals, err := repo.CategoryTotals(ctx, "2024-03")
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 2 || totals[0].Name != "Paint" || !totals[0].Total.Equal(decimal.RequireFromString("325.5")) {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	items, err := repo.ListInventory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Status != core.DefaultInventoryStatus {
		t.Fatalf("unexpected inventory: %+v", items)
	}

	// Re-seeding upserts inventory and categories by key.
	if _, err := seed.Apply(ctx, repo); err != nil {
		t.Fatal(err)
	}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Fatalf("categories duplicated: %+v", cats)
	}
}

func TestExportLedger(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for _, tx := range []core.Transaction{
		{Date: "2024-01-02", Reference: `Order "7"`, Type: core.TypeInvoice, Account: "Sales", Debit: decimal.NewFromInt(5)},
		{Date: "2024-02-02", Reference: "EXP-1", Type: core.TypeExpense, Account: "Rent, office", Debit: decimal.NewFromInt(3)},
	} {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	n, err := exportLedger(ctx, repo, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows=%d, want 2", n)
	}
	want := "Date,Reference,Type,Account,Debit,Credit\n" +
		"2024-02-02,EXP-1,expense,\"Rent, office\",3,0\n" +
		"2024-01-02,\"Order \"\"7\"\"\",invoice,Sales,5,0\n"
	if buf.String() != want {
		t.Fatalf("csv=%q, want %q", buf.String(), want)
	}
}

type stubReporter struct{ month string }

func (stubReporter) Stats(ctx context.Context) (core.Stats, error) {
	return core.Stats{
		Revenue:  decimal.NewFromInt(100),
		Expenses: decimal.NewFromInt(40),
		Profit:   decimal.NewFromInt(60),
		Stock:    9,
	}, nil
}

func (stubReporter) RevenueSeries(ctx context.Context, months int) (core.RevenueSeries, error) {
	return core.RevenueSeries{
		Labels:   []string{"Feb", "Mar"},
		Months:   []string{"2024-02", "2024-03"},
		Revenue:  []int64{0, 100},
		Expenses: []int64{40, 0},
	}, nil
}

func (s *stubReporter) CategoryBreakdown(ctx context.Context, month string) ([]core.CategoryTotal, error) {
	s.month = month
	return []core.CategoryTotal{{ID: 1, Name: "Paint", Total: decimal.NewFromInt(300)}}, nil
}

func (stubReporter) CurrentMonth() string { return "2024-03" }

func TestWriteReport(t *testing.T) {
	r := &stubReporter{}
	var buf bytes.Buffer
	if err := writeReport(context.Background(), r, &buf, 2, ""); err != nil {
		t.Fatalf("report: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"100.00", "40.00", "60.00", "2024-02", "MAR", "Paint", "300.00", "Category sales 2024-03"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if r.month != "2024-03" {
		t.Fatalf("breakdown month=%q, want current month", r.month)
	}
}

func TestRenderChart(t *testing.T) {
	for _, kind := range []string{chartRevenue, chartCategories} {
		var buf bytes.Buffer
		if err := renderChart(context.Background(), &stubReporter{}, &buf, kind, 2, ""); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Fatalf("%s: expected PNG output", kind)
		}
	}
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	handle := printEvent(&buf)

	if err := handle(amqp.NewLedgerEvent(amqp.EventTransactionDeleted, 7, nil)); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not one JSON line: %q", buf.String())
	}
	if got["kind"] != amqp.EventTransactionDeleted {
		t.Fatalf("kind=%v", got["kind"])
	}
}

func TestSeedAndExportCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "data", "bizdash.db"))
	t.Setenv("AMQP_URL", "")
	t.Setenv("CONFIG_FILE", "")
	seedPath := writeFile(t, "seed.toml", sampleSeed)
	csvPath := filepath.Join(dir, "ledger.csv")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"seed", "--file", seedPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out.String(), "Seeded 2 categories") {
		t.Fatalf("seed output=%q", out.String())
	}

	rootCmd.SetArgs([]string{"export", "--out", csvPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "2024-03-01,INV-1,invoice,Sales,100,0") {
		t.Fatalf("csv=%q", data)
	}
}
