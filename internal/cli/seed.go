package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"bizdash/internal/core"
)

// SeedFile is the TOML document accepted by `bizdash seed`. It covers the
// tables that have no creation endpoint, plus optional ledger rows.
type SeedFile struct {
	Categories   []SeedCategory    `toml:"categories"`
	Inventory    []SeedItem        `toml:"inventory"`
	Transactions []SeedTransaction `toml:"transactions"`
}

type SeedCategory struct {
	Name  string     `toml:"name"`
	Sales []SeedSale `toml:"sales"`
}

type SeedSale struct {
	Month  string  `toml:"month"`
	Amount float64 `toml:"amount"`
}

type SeedItem struct {
	SKU          string `toml:"sku"`
	Name         string `toml:"name"`
	Stock        int64  `toml:"stock"`
	ReorderLevel int64  `toml:"reorder_level"`
	Status       string `toml:"status"`
}

type SeedTransaction struct {
	Date      string  `toml:"date"`
	Reference string  `toml:"reference"`
	Type      string  `toml:"type"`
	Account   string  `toml:"account"`
	Debit     float64 `toml:"debit"`
	Credit    float64 `toml:"credit"`
}

// SeedCounts reports how many rows of each kind were written.
type SeedCounts struct {
	Categories   int
	Sales        int
	Inventory    int
	Transactions int
}

func (c SeedCounts) String() string {
	return fmt.Sprintf("%d categories, %d category sales, %d inventory items, %d transactions",
		c.Categories, c.Sales, c.Inventory, c.Transactions)
}

type seedStore interface {
	UpsertCategory(ctx context.Context, name string) (int64, error)
	AddCategorySale(ctx context.Context, categoryID int64, month string, amount decimal.Decimal) (int64, error)
	UpsertInventoryItem(ctx context.Context, it core.InventoryItem) error
	CreateTransaction(ctx context.Context, t core.Transaction) (*core.Transaction, error)
}

// ParseSeedFile decodes path and rejects entries the store would accept but
// the dashboard cannot use.
func ParseSeedFile(path string) (*SeedFile, error) {
	var s SeedFile
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("seed file %s: unknown keys %v", path, undecoded)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return &s, nil
}

func (s *SeedFile) Validate() error {
	for i, c := range s.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("categories[%d]: %w", i, core.Required("name"))
		}
		for j, sale := range c.Sales {
			if _, err := core.ParseMonth(sale.Month); err != nil {
				return fmt.Errorf("categories[%d].sales[%d]: %w", i, j, core.Invalid("month", err))
			}
		}
	}
	for i, it := range s.Inventory {
		if strings.TrimSpace(it.SKU) == "" {
			return fmt.Errorf("inventory[%d]: %w", i, core.Required("sku"))
		}
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("inventory[%d]: %w", i, core.Required("name"))
		}
	}
	for i, t := range s.Transactions {
		in := core.TransactionInput{Date: t.Date, Reference: t.Reference, Type: t.Type, Account: t.Account}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("transactions[%d]: %w", i, err)
		}
	}
	return nil
}

// Apply writes the seed to store. Categories and inventory are upserted by
// name and SKU; sales and transactions are always appended.
func (s *SeedFile) Apply(ctx context.Context, store seedStore) (SeedCounts, error) {
	var counts SeedCounts

	for _, c := range s.Categories {
		id, err := store.UpsertCategory(ctx, strings.TrimSpace(c.Name))
		if err != nil {
			return counts, err
		}
		counts.Categories++

		for _, sale := range c.Sales {
			if _, err := store.AddCategorySale(ctx, id, strings.TrimSpace(sale.Month), decimal.NewFromFloat(sale.Amount)); err != nil {
				return counts, err
			}
			counts.Sales++
		}
	}

	for _, it := range s.Inventory {
		item := core.InventoryItem{
			SKU:          strings.TrimSpace(it.SKU),
			Name:         strings.TrimSpace(it.Name),
			Stock:        it.Stock,
			ReorderLevel: it.ReorderLevel,
			Status:       strings.TrimSpace(it.Status),
		}
		if err := store.UpsertInventoryItem(ctx, item); err != nil {
			return counts, err
		}
		counts.Inventory++
	}

	for _, t := range s.Transactions {
		if _, err := store.CreateTransaction(ctx, core.Transaction{
			Date:      t.Date,
			Reference: t.Reference,
			Type:      t.Type,
			Account:   t.Account,
			Debit:     decimal.NewFromFloat(t.Debit),
			Credit:    decimal.NewFromFloat(t.Credit),
		}); err != nil {
			return counts, err
		}
		counts.Transactions++
	}

	return counts, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories, category sales and inventory from a TOML file",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "seed.toml", "Seed file to load")
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	seed, err := ParseSeedFile(path)
	if err != nil {
		return err
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	counts, err := seed.Apply(cmd.Context(), repo)
	if err != nil {
		return fmt.Errorf("apply seed (partial: %s): %w", counts, err)
	}

	logger.Info("Seed applied", "file", path, "written", counts.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", counts)
	return nil
}
