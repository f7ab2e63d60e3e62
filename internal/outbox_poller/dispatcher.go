package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Dispatcher fans a batch of outbox messages out to the sinks on a bounded
// worker pool
type Dispatcher struct {
	pool   *ants.Pool
	sinks  []Sink
	logger *slog.Logger
}

func NewDispatcher(cfg *config.WorkerPoolConfig, sinks []Sink, logger *slog.Logger) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher worker pool: %w", err)
	}

	return &Dispatcher{
		pool:   pool,
		sinks:  sinks,
		logger: logger.With("component", "outbox_dispatcher"),
	}, nil
}

// Dispatch delivers every message to every sink and returns the outcome per
// message id. A nil error means all sinks accepted the message.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []outbox.Message) map[uuid.UUID]error {
	results := make(map[uuid.UUID]error, len(messages))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, msg := range messages {
		msg := msg
		wg.Add(1)
		err := d.pool.Submit(func() {
			defer wg.Done()
			err := d.deliver(ctx, msg)
			mu.Lock()
			results[msg.ID] = err
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			d.logger.Error("Failed to submit outbox message to worker pool", "outbox_id", msg.ID, "error", err)
			mu.Lock()
			results[msg.ID] = err
			mu.Unlock()
		}
	}

	wg.Wait()
	return results
}

func (d *Dispatcher) deliver(ctx context.Context, msg outbox.Message) error {
	event, err := msg.GetEvent()
	if err != nil {
		d.logger.Error("Failed to decode outbox payload", "outbox_id", msg.ID, "transaction_id", msg.TransactionID, "error", err)
		return fmt.Errorf("%w: %v", ErrUndecodablePayload, err)
	}

	logger := d.logger.With("outbox_id", msg.ID, "transaction_id", msg.TransactionID)

	var errs []error
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			logger.Warn("Sink rejected ledger event", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		logger.Debug("Ledger event delivered", "sink", sink.Name())
	}
	return errors.Join(errs...)
}

// Running returns the number of busy workers
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}

// Shutdown releases the worker pool
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down outbox dispatcher", "running_workers", d.pool.Running())
	d.pool.Release()
}
