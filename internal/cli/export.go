package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bizdash/internal/core"
	apphttp "bizdash/internal/http"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger as CSV",
	Long:  `Write every transaction, newest first, in the same CSV format as GET /api/transactions/export.`,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
}

type transactionSource interface {
	AllTransactions(ctx context.Context) ([]core.Transaction, error)
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	n, err := exportLedger(cmd.Context(), repo, w)
	if err != nil {
		return err
	}
	if out != "" {
		logger.Info("Ledger exported", "file", out, "rows", n)
	}
	return nil
}

func exportLedger(ctx context.Context, src transactionSource, w io.Writer) (int, error) {
	txs, err := src.AllTransactions(ctx)
	if err != nil {
		return 0, err
	}
	if err := apphttp.WriteTransactionsCSV(w, txs); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(txs), nil
}
