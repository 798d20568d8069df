package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bizdash/internal/core"
)

const (
	EventTransactionCreated = "ledger.transaction.created"
	EventTransactionUpdated = "ledger.transaction.updated"
	EventTransactionDeleted = "ledger.transaction.deleted"
)

// LedgerEvent announces a committed ledger write. Transaction carries the row
// as stored after the write and is omitted for deletes.
type LedgerEvent struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	TransactionID int64             `json:"transaction_id"`
	Transaction   *core.Transaction `json:"transaction,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

func NewLedgerEvent(kind string, transactionID int64, tx *core.Transaction) *LedgerEvent {
	return &LedgerEvent{
		ID:            uuid.NewString(),
		Kind:          kind,
		TransactionID: transactionID,
		Transaction:   tx,
		Timestamp:     time.Now().UTC(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
