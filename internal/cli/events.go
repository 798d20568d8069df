package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bizdash/internal/amqp"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail ledger events from the broker",
	Long: `Bind a queue to the ledger exchange and print every transaction event
as one JSON line until interrupted.`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().String("queue", "bizdash.ledger.tail", "Queue to bind and consume")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if !cfg.EventsEnabled() {
		return errors.New("AMQP_URL is not set")
	}
	queue, _ := cmd.Flags().GetString("queue")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Close()

	err = client.Consume(ctx, queue, printEvent(cmd.OutOrStdout()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printEvent(w io.Writer) func(*amqp.LedgerEvent) error {
	enc := json.NewEncoder(w)
	return func(e *amqp.LedgerEvent) error {
		return enc.Encode(e)
	}
}
