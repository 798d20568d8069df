package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bizdash/internal/amqp"
	apphttp "bizdash/internal/http"
	applog "bizdash/internal/log"
	"bizdash/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	// A nil *amqp.Client must not reach the service as a non-nil interface.
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			logger.WithComponent(applog.ComponentAMQP).Warn("Ledger events disabled, broker unreachable",
				applog.FieldError, err,
				applog.FieldErrorType, applog.ErrorTypeNetwork)
		} else {
			defer client.Close()
			publisher = client
			logger.WithComponent(applog.ComponentAMQP).Info("Publishing ledger events",
				"exchange", cfg.AMQPExchange,
				"routing_key", cfg.AMQPRoutingKey)
		}
	}

	srv := apphttp.NewServer(cfg.Addr(), apphttp.Deps{
		Store:    repo,
		Reporter: newEngine(repo),
		Ledger:   services.NewLedgerService(repo, publisher),
		Logger:   logger,
	}, apphttp.Options{
		ListMaxLimit:   cfg.ListMaxLimit,
		RateLimitRPM:   cfg.RateLimitRPM,
		CORSOrigin:     cfg.CORSOrigin,
		StaticDir:      cfg.StaticDir,
		TrustedProxies: cfg.TrustedProxies,
		MetricsEnabled: cfg.MetricsEnabled,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting bizdash server",
			applog.FieldOperation, applog.OpStartup,
			"addr", srv.Addr,
			"db", cfg.SQLiteDBPath,
			"events", cfg.EventsEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", applog.FieldError, err, "addr", srv.Addr)
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", applog.FieldError, err)
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
