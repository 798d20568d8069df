// Package cli wires the bizdash commands: the HTTP server plus the offline
// tools that work directly on the SQLite store.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bizdash/internal/config"
	applog "bizdash/internal/log"
	"bizdash/internal/reporting"
	"bizdash/internal/storage"
)

var (
	configPath string

	cfg    *config.Config
	logger *applog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bizdash",
	Short: "Small-business dashboard backend",
	Long: `bizdash serves a JSON API over a SQLite ledger, inventory and category
sales tables, and ships offline commands to migrate, seed, export and report
on the same database.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (overrides CONFIG_FILE)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads .env, the config file and the environment, then installs the
// default logger.
func setup(cmd *cobra.Command, args []string) error {
	// .env is optional outside local development.
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	loaded, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger = applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)
	return nil
}

func openStore() (*storage.Repository, error) {
	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open store",
			applog.FieldError, err,
			"path", cfg.SQLiteDBPath)
		return nil, err
	}
	return repo, nil
}

func newEngine(repo *storage.Repository) *reporting.Engine {
	return reporting.NewEngine(repo, reporting.WithMaxMonths(cfg.SeriesMaxMonths))
}
