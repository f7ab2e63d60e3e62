package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/segmentio/kafka-go"
)

// LedgerEventProducer publishes committed ledger events, keyed by account
// number so that events of one account stay ordered within a partition
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewLedgerEventProducer creates the producer and ensures its topic exists
func NewLedgerEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.LedgerTopic == "" {
		return nil, fmt.Errorf("kafka ledger topic is not configured")
	}
	logger = logger.With("component", "ledger_event_producer")

	if err := ensureTopic(cfg.Brokers, cfg.LedgerTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger topic %s exists: %w", cfg.LedgerTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.LedgerTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false, // the outbox needs to know the outcome
		WriteTimeout: cfg.WriteTimeout,
	}

	return &LedgerEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.LedgerTopic,
	}, nil
}

// Name identifies the sink in logs
func (p *LedgerEventProducer) Name() string {
	return "kafka"
}

// Deliver publishes one ledger event
func (p *LedgerEventProducer) Deliver(ctx context.Context, event outbox.LedgerEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event %s: %w", event.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AccountNumber),
		Value: value,
		Headers: []kafka.Header{
			{Key: "transaction-id", Value: []byte(event.ID.String())},
			{Key: "transaction-kind", Value: []byte(event.Kind)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"transaction_id", event.ID,
			"error", err,
		)
		return fmt.Errorf("failed to publish ledger event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger event",
		"topic", p.topic,
		"transaction_id", event.ID,
		"account_number", event.AccountNumber,
	)
	return nil
}

func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
