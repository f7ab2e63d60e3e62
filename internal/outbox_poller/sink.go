package outbox_poller

import (
	"context"
	"errors"

	"github.com/filebank-ledger/internal/domain/outbox"
)

// ErrUndecodablePayload marks an outbox message whose payload can never be
// delivered. Such messages are failed without retrying.
var ErrUndecodablePayload = errors.New("outbox payload cannot be decoded")

// Sink receives committed ledger events. Deliveries are retried, so a sink must
// tolerate receiving the same transaction more than once.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event outbox.LedgerEvent) error
}

// DeadLetterPublisher receives messages that exhausted their delivery attempts
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
}
