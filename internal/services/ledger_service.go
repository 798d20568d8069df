package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bizdash/internal/amqp"
	"bizdash/internal/core"
	"bizdash/internal/metrics"
)

// LedgerStore is the write side of the ledger.
type LedgerStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (*core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, t core.Transaction) (*core.Transaction, int64, error)
	DeleteTransaction(ctx context.Context, id int64) (int64, error)
}

// EventPublisher delivers ledger events; *amqp.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, e *amqp.LedgerEvent) error
}

// LedgerService applies transaction mutations to the store and announces the
// ones that changed a row.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
}

// NewLedgerService builds the service; publisher may be nil when events are
// disabled.
func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// CreateTransaction validates in, stores it and returns the stored row.
func (s *LedgerService) CreateTransaction(ctx context.Context, in core.TransactionInput) (*core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.CreateTransaction(ctx, in.Transaction())
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if created == nil {
		return nil, errors.New("create transaction: stored row not readable")
	}

	metrics.RecordMutation("created")
	s.publish(ctx, amqp.EventTransactionCreated, created.ID, created)
	return created, nil
}

// UpdateTransaction replaces transaction id. A missing id yields a nil row and
// zero changes.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, int64, error) {
	if err := in.Validate(); err != nil {
		return nil, 0, err
	}

	updated, changes, err := s.store.UpdateTransaction(ctx, id, in.Transaction())
	if err != nil {
		return nil, 0, fmt.Errorf("update transaction: %w", err)
	}
	if changes > 0 {
		metrics.RecordMutation("updated")
		s.publish(ctx, amqp.EventTransactionUpdated, id, updated)
	}
	return updated, changes, nil
}

// DeleteTransaction removes transaction id and reports the change count.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	changes, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}
	if changes > 0 {
		metrics.RecordMutation("deleted")
		s.publish(ctx, amqp.EventTransactionDeleted, id, nil)
	}
	return changes, nil
}

// publish never fails the caller: the row is already committed.
func (s *LedgerService) publish(ctx context.Context, kind string, id int64, tx *core.Transaction) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Ledger events disabled, skipping", "kind", kind, "transaction_id", id)
		return
	}
	if err := s.publisher.Publish(ctx, amqp.NewLedgerEvent(kind, id, tx)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind,
			"transaction_id", id,
			"error", err)
	}
}
