package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bizdash/internal/charts"
	"bizdash/internal/reporting"
)

const (
	chartRevenue    = "revenue"
	chartCategories = "categories"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a dashboard chart to PNG",
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().String("kind", chartRevenue, "Chart to render: revenue or categories")
	chartCmd.Flags().StringP("out", "o", "", "Output PNG file")
	chartCmd.Flags().Int("months", reporting.DefaultSeriesMonths, "Months in the revenue chart")
	chartCmd.Flags().String("month", "", "Month for the categories chart (YYYY-MM, default current)")
	_ = chartCmd.MarkFlagRequired("out")
}

func runChart(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	out, _ := cmd.Flags().GetString("out")
	months, _ := cmd.Flags().GetInt("months")
	month, _ := cmd.Flags().GetString("month")

	if kind != chartRevenue && kind != chartCategories {
		return fmt.Errorf("unknown chart kind %q (want %s or %s)", kind, chartRevenue, chartCategories)
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := renderChart(cmd.Context(), newEngine(repo), f, kind, months, month); err != nil {
		return err
	}
	logger.Info("Chart written", "kind", kind, "file", out)
	return nil
}

func renderChart(ctx context.Context, r reporter, w io.Writer, kind string, months int, month string) error {
	if kind == chartCategories {
		if month == "" {
			month = r.CurrentMonth()
		}
		totals, err := r.CategoryBreakdown(ctx, month)
		if err != nil {
			return err
		}
		return charts.RenderCategorySales(w, month, totals)
	}

	series, err := r.RevenueSeries(ctx, months)
	if err != nil {
		return err
	}
	return charts.RenderRevenue(w, series)
}
