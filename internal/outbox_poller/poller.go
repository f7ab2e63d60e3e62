// Package outbox_poller relays committed ledger events from the outbox table to
// the configured sinks.
package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/google/uuid"
)

// Poller processes pending outbox messages
type Poller struct {
	store            *filestore.Store
	dispatcher       *Dispatcher
	dlq              DeadLetterPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

// NewPoller creates a poller. dlq may be nil when no dead letter topic is
// configured.
func NewPoller(
	cfg *config.OutboxConfig,
	store *filestore.Store,
	dispatcher *Dispatcher,
	dlq DeadLetterPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		store:            store,
		dispatcher:       dispatcher,
		dlq:              dlq,
		logger:           logger.With("component", "outbox_poller"),
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			if _, err := p.ProcessPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

// ProcessPendingMessages relays one batch and returns how many messages it
// took. The store lock is held only while reading the batch and while
// recording the outcome, never during delivery.
func (p *Poller) ProcessPendingMessages(ctx context.Context) (int, error) {
	var batch []outbox.Message
	_ = p.store.Exclusive(func() error {
		batch = p.store.Outbox.Find(outbox.Message.Pending)
		if len(batch) > p.batchSize {
			batch = batch[:p.batchSize]
		}
		return nil
	})

	if len(batch) == 0 {
		p.logger.Debug("No pending outbox messages found.")
		return 0, nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(batch))
	results := p.dispatcher.Dispatch(ctx, batch)

	var deadLetters []outbox.Message
	err := p.store.Exclusive(func() error {
		deadLetters = p.applyResults(batch, results)
		return p.store.Commit(p.store.Outbox)
	})
	if err != nil {
		return len(batch), fmt.Errorf("failed to record outbox delivery results: %w", err)
	}

	for _, msg := range deadLetters {
		p.publishDeadLetter(ctx, msg, results[msg.ID])
	}
	return len(batch), nil
}

// applyResults must be called with the store lock held
func (p *Poller) applyResults(batch []outbox.Message, results map[uuid.UUID]error) []outbox.Message {
	var deadLetters []outbox.Message

	for _, sent := range batch {
		logger := p.logger.With("outbox_id", sent.ID, "transaction_id", sent.TransactionID)

		msg, ok := p.store.Outbox.Get(sent.ID.String())
		if !ok {
			continue
		}

		deliveryErr := results[msg.ID]
		if deliveryErr == nil {
			if err := p.store.Outbox.Delete(msg); err != nil {
				logger.Error("Failed to remove delivered outbox message", "error", err)
			}
			logger.Info("Outbox message delivered to all sinks")
			continue
		}

		msg.IncrementAttempts()
		if msg.Attempts >= p.maxRetryAttempts || errors.Is(deliveryErr, ErrUndecodablePayload) {
			logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
				"attempts_made", msg.Attempts, "error", deliveryErr,
			)
			msg.MarkAsFailed()
			deadLetters = append(deadLetters, msg)
		} else {
			logger.Error("Failed to deliver outbox message",
				"current_attempts", msg.Attempts, "error", deliveryErr,
			)
		}
		if err := p.store.Outbox.Update(msg); err != nil {
			logger.Error("Failed to update outbox message", "error", err)
		}
	}
	return deadLetters
}

func (p *Poller) publishDeadLetter(ctx context.Context, msg outbox.Message, reason error) {
	if p.dlq == nil {
		return
	}
	cause := "delivery failed"
	if reason != nil {
		cause = reason.Error()
	}
	if err := p.dlq.PublishToDLQ(ctx, msg.AccountNumber, msg.Payload, cause); err != nil {
		p.logger.Error("Failed to publish outbox message to DLQ", "outbox_id", msg.ID, "error", err)
	}
}
