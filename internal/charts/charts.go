// Package charts renders the dashboard aggregates as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bizdash/internal/core"
)

const ContentType = "image/png"

var ErrNoData = errors.New("no chart data")

var (
	revenueColor = drawing.Color{R: 77, G: 184, B: 255, A: 255}
	expenseColor = drawing.Color{R: 250, G: 134, B: 94, A: 255}
	barColor     = drawing.Color{R: 165, G: 235, B: 91, A: 255}
)

const (
	barWidth   = 40
	barSpacing = 24
)

// RenderRevenue draws revenue and expenses per month as two lines.
func RenderRevenue(w io.Writer, s core.RevenueSeries) error {
	n := len(s.Months)
	if n == 0 {
		return ErrNoData
	}

	xs := make([]float64, n)
	revenue := make([]float64, n)
	expenses := make([]float64, n)
	// Blank edge ticks keep the x range wide enough for a single month.
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	peak := 0.0
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		revenue[i] = float64(s.Revenue[i])
		expenses[i] = float64(s.Expenses[i])
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: s.Labels[i]})
		peak = max(peak, revenue[i], expenses[i])
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})

	graph := chart.Chart{
		Title: fmt.Sprintf("Revenue vs expenses, %s to %s", s.Months[0], s.Months[n-1]),
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: headroom(peak)},
			ValueFormatter: amountFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Revenue",
				XValues: xs,
				YValues: revenue,
				Style:   chart.Style{StrokeColor: revenueColor, StrokeWidth: 2, DotColor: revenueColor, DotWidth: 3},
			},
			chart.ContinuousSeries{
				Name:    "Expenses",
				XValues: xs,
				YValues: expenses,
				Style:   chart.Style{StrokeColor: expenseColor, StrokeWidth: 2, DotColor: expenseColor, DotWidth: 3},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render revenue chart: %w", err)
	}
	return nil
}

// RenderCategorySales draws one bar per category for month, in the order given.
func RenderCategorySales(w io.Writer, month string, totals []core.CategoryTotal) error {
	if len(totals) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(totals))
	lo, hi := 0.0, 0.0
	for _, ct := range totals {
		v := ct.Total.InexactFloat64()
		lo, hi = min(lo, v), max(hi, v)
		bars = append(bars, chart.Value{
			Label: ct.Name,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	barChart := chart.BarChart{
		Title: fmt.Sprintf("Category sales, %s", month),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:      max(800, len(bars)*(barWidth+barSpacing)+120),
		Height:     400,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Bars:       bars,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: lo, Max: headroom(hi)},
			ValueFormatter: amountFormatter,
		},
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category chart: %w", err)
	}
	return nil
}

// headroom leaves a tenth above the tallest value and never collapses the axis.
func headroom(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	return peak * 1.1
}

func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return decimal.NewFromFloat(f).StringFixed(0)
	}
	return ""
}
