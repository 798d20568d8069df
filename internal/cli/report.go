package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"bizdash/internal/core"
	"bizdash/internal/reporting"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard figures as tables",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Int("months", reporting.DefaultSeriesMonths, "Months in the revenue series")
	reportCmd.Flags().String("month", "", "Month for the category breakdown (YYYY-MM, default current)")
}

type reporter interface {
	Stats(ctx context.Context) (core.Stats, error)
	RevenueSeries(ctx context.Context, months int) (core.RevenueSeries, error)
	CategoryBreakdown(ctx context.Context, month string) ([]core.CategoryTotal, error)
	CurrentMonth() string
}

func runReport(cmd *cobra.Command, args []string) error {
	months, _ := cmd.Flags().GetInt("months")
	month, _ := cmd.Flags().GetString("month")

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	return writeReport(cmd.Context(), newEngine(repo), cmd.OutOrStdout(), months, month)
}

func writeReport(ctx context.Context, r reporter, w io.Writer, months int, month string) error {
	stats, err := r.Stats(ctx)
	if err != nil {
		return err
	}
	series, err := r.RevenueSeries(ctx, months)
	if err != nil {
		return err
	}
	if month == "" {
		month = r.CurrentMonth()
	}
	totals, err := r.CategoryBreakdown(ctx, month)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "== Totals ==")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Revenue", "Expenses", "Profit", "Stock"})
	table.Append([]string{
		stats.Revenue.StringFixed(2),
		stats.Expenses.StringFixed(2),
		stats.Profit.StringFixed(2),
		strconv.FormatInt(stats.Stock, 10),
	})
	table.Render()

	fmt.Fprintf(w, "\n== Revenue series (%d months) ==\n", len(series.Months))
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Month", "Label", "Revenue", "Expenses"})
	for i := range series.Months {
		table.Append([]string{
			series.Months[i],
			series.Labels[i],
			strconv.FormatInt(series.Revenue[i], 10),
			strconv.FormatInt(series.Expenses[i], 10),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\n== Category sales %s ==\n", month)
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Total"})
	for _, ct := range totals {
		table.Append([]string{ct.Name, ct.Total.StringFixed(2)})
	}
	table.Render()
	return nil
}
