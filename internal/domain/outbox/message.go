package outbox

import (
	"encoding/json"
	"time"

	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Status defines message publishing states. Delivered messages are removed
// from the outbox, so there is no delivered state.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// LedgerEvent is the payload relayed to the external sinks for every
// committed transaction
type LedgerEvent struct {
	ledger.Transaction
	CustomerID uuid.UUID       `json:"CustomerId"`
	Currency   shared.Currency `json:"Currency"`
}

// Message stores a ledger event until every sink has received it. It is
// written in the same commit as the transaction it describes.
type Message struct {
	ID            uuid.UUID       `json:"Id"`
	TransactionID uuid.UUID       `json:"TransactionId"`
	AccountNumber string          `json:"AccountNumber"`
	Payload       json.RawMessage `json:"Payload"`
	Status        Status          `json:"Status"`
	Attempts      int             `json:"Attempts"`
	CreatedAt     time.Time       `json:"CreatedAt"`
	LastAttemptAt *time.Time      `json:"LastAttemptAt,omitempty"`
}

func NewMessage(event LedgerEvent, now time.Time) (Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, err
	}

	return Message{
		ID:            uuid.New(),
		TransactionID: event.ID,
		AccountNumber: event.AccountNumber,
		Payload:       payload,
		Status:        StatusPending,
		CreatedAt:     now,
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m Message) Clone() Message {
	if m.Payload != nil {
		m.Payload = append(json.RawMessage(nil), m.Payload...)
	}
	if m.LastAttemptAt != nil {
		at := *m.LastAttemptAt
		m.LastAttemptAt = &at
	}
	return m
}

// Pending reports whether the message still awaits delivery
func (m Message) Pending() bool {
	return m.Status == StatusPending
}

// GetEvent extracts the ledger event from the payload
func (m Message) GetEvent() (LedgerEvent, error) {
	var event LedgerEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return LedgerEvent{}, err
	}
	return event, nil
}
