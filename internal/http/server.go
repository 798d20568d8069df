// Package http serves the dashboard JSON API, the CSV export, PNG charts and
// the optional static front-end.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"bizdash/internal/core"
	applog "bizdash/internal/log"
	"bizdash/internal/metrics"
	"bizdash/internal/middleware/ratelimit"
	"bizdash/internal/middleware/security"
	"bizdash/internal/middleware/trace"
)

// Store is the read side of the ledger and the inventory table.
type Store interface {
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	AllTransactions(ctx context.Context) ([]core.Transaction, error)
	ListInventory(ctx context.Context) ([]core.InventoryItem, error)
	UpdateInventory(ctx context.Context, id, stock, reorderLevel int64, status string) (*core.InventoryItem, int64, error)
	Ping(ctx context.Context) error
}

// Reporter computes the dashboard aggregates.
type Reporter interface {
	Stats(ctx context.Context) (core.Stats, error)
	RevenueSeries(ctx context.Context, months int) (core.RevenueSeries, error)
	CategoryBreakdown(ctx context.Context, month string) ([]core.CategoryTotal, error)
	CurrentMonth() string
}

// Ledger applies transaction writes.
type Ledger interface {
	CreateTransaction(ctx context.Context, in core.TransactionInput) (*core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, int64, error)
	DeleteTransaction(ctx context.Context, id int64) (int64, error)
}

type Deps struct {
	Store    Store
	Reporter Reporter
	Ledger   Ledger
	Logger   *applog.Logger
}

type Options struct {
	ListMaxLimit   int
	RateLimitRPM   int
	CORSOrigin     string
	StaticDir      string
	TrustedProxies []string
	MetricsEnabled bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type Server struct {
	http.Server
	store    Store
	reporter Reporter
	ledger   Ledger
	logger   *applog.Logger

	listMaxLimit int
	startedAt    time.Time
	limiter      *ratelimit.Limiter
	detector     *security.Detector
}

func NewServer(addr string, deps Deps, opts Options) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		store:        deps.Store,
		reporter:     deps.Reporter,
		ledger:       deps.Ledger,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		listMaxLimit: opts.ListMaxLimit,
		startedAt:    time.Now(),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}),
		detector:     security.NewDetector(),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy",
				applog.FieldError, err,
				applog.FieldErrorType, applog.ErrorTypeConfiguration)
		}
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware)
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) }))
	r.Use(s.recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger))
	r.Use(security.CORS(opts.CORSOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) { NotFoundError().Write(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) { MethodNotAllowedError().Write(w) })

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if opts.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(security.NoStore)
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.MutatingOnly, s.handleRateLimited))

		r.Get("/stats", s.handleStats)
		r.Get("/revenue-series", s.handleRevenueSeries)
		r.Get("/category-sales", s.handleCategorySales)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Get("/transactions/export", s.handleExportTransactions)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/inventory", s.handleListInventory)
		r.Put("/inventory/{id}", s.handleUpdateInventory)

		r.Get("/charts/revenue.png", s.handleRevenueChart)
		r.Get("/charts/category-sales.png", s.handleCategoryChart)
	})

	if opts.StaticDir != "" {
		files := http.FileServer(http.Dir(opts.StaticDir))
		r.Handle("/*", security.StaticAssetMiddleware(300)(files))
	}

	return r
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
