// Package reporting derives the dashboard aggregates (headline stats, the
// monthly revenue series and the per-category breakdown) from the stores.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"bizdash/internal/core"
)

const (
	DefaultSeriesMonths = 6
	DefaultMaxMonths    = 60
)

// Store is the read side the engine aggregates over.
type Store interface {
	SumDebitByType(ctx context.Context, txType string) (decimal.Decimal, error)
	TotalStock(ctx context.Context) (int64, error)
	MonthlyDebitByType(ctx context.Context, since string) ([]core.MonthlyAmount, error)
	CategoryTotals(ctx context.Context, month string) ([]core.CategoryTotal, error)
}

type Engine struct {
	store     Store
	now       func() time.Time
	maxMonths int
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of "current month".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMaxMonths caps the revenue series window.
func WithMaxMonths(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxMonths = n
		}
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		now:       time.Now,
		maxMonths: DefaultMaxMonths,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats computes revenue, expenses, profit and total stock. The three reads run
// concurrently; if any fails the whole result is discarded.
func (e *Engine) Stats(ctx context.Context) (core.Stats, error) {
	var (
		revenue, expenses decimal.Decimal
		stock             int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := e.store.SumDebitByType(gctx, core.TypeInvoice)
		if err != nil {
			return fmt.Errorf("revenue: %w", err)
		}
		revenue = v
		return nil
	})
	g.Go(func() error {
		v, err := e.store.SumDebitByType(gctx, core.TypeExpense)
		if err != nil {
			return fmt.Errorf("expenses: %w", err)
		}
		expenses = v
		return nil
	})
	g.Go(func() error {
		v, err := e.store.TotalStock(gctx)
		if err != nil {
			return fmt.Errorf("stock: %w", err)
		}
		stock = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Stats{}, fmt.Errorf("compute stats: %w", err)
	}

	return core.Stats{
		Revenue:  revenue,
		Expenses: expenses,
		Profit:   revenue.Sub(expenses),
		Stock:    stock,
	}, nil
}

// ClampMonths bounds a requested series window to [1, max].
func (e *Engine) ClampMonths(months int) int {
	if months < 1 {
		return 1
	}
	if months > e.maxMonths {
		return e.maxMonths
	}
	return months
}

// RevenueSeries returns one bucket per month for the last months calendar
// months, ending with the current one. The store is queried once with the
// first day of the oldest bucket as lower bound.
func (e *Engine) RevenueSeries(ctx context.Context, months int) (core.RevenueSeries, error) {
	buckets := core.MonthBuckets(e.now(), e.ClampMonths(months))
	since := buckets[0].Format("2006-01-02")

	rows, err := e.store.MonthlyDebitByType(ctx, since)
	if err != nil {
		return core.RevenueSeries{}, fmt.Errorf("revenue series: %w", err)
	}

	revenue := make(map[string]decimal.Decimal)
	expenses := make(map[string]decimal.Decimal)
	for _, r := range rows {
		switch r.Type {
		case core.TypeInvoice:
			revenue[r.Month] = revenue[r.Month].Add(r.Total)
		case core.TypeExpense:
			expenses[r.Month] = expenses[r.Month].Add(r.Total)
		}
	}

	series := core.RevenueSeries{
		Labels:   make([]string, len(buckets)),
		Months:   make([]string, len(buckets)),
		Revenue:  make([]int64, len(buckets)),
		Expenses: make([]int64, len(buckets)),
	}
	for i, b := range buckets {
		key := core.MonthKey(b)
		series.Labels[i] = core.MonthLabel(b)
		series.Months[i] = key
		series.Revenue[i] = roundedOrZero(revenue, key)
		series.Expenses[i] = roundedOrZero(expenses, key)
	}
	return series, nil
}

func roundedOrZero(m map[string]decimal.Decimal, key string) int64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	return v.Round(0).IntPart()
}

// CategoryBreakdown totals category sales for month ("YYYY-MM"). An empty month
// means the current one.
func (e *Engine) CategoryBreakdown(ctx context.Context, month string) ([]core.CategoryTotal, error) {
	if month == "" {
		month = core.MonthKey(e.now())
	} else {
		t, err := core.ParseMonth(month)
		if err != nil {
			return nil, core.Invalid("month", err)
		}
		month = core.MonthKey(t)
	}

	totals, err := e.store.CategoryTotals(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("category breakdown for %s: %w", month, err)
	}
	return totals, nil
}

// CurrentMonth is the "YYYY-MM" key of the engine clock.
func (e *Engine) CurrentMonth() string {
	return core.MonthKey(e.now())
}
