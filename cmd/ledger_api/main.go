package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/filebank-ledger/internal/api_gateway"
	"github.com/filebank-ledger/internal/bank/components"
	"github.com/filebank-ledger/internal/bank/service"
	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/data/mongo"
	"github.com/filebank-ledger/internal/data/postgres"
	"github.com/filebank-ledger/internal/logger"
	"github.com/filebank-ledger/internal/outbox_poller"
	"github.com/filebank-ledger/internal/platform/messaging/producers"
	"github.com/filebank-ledger/internal/platform/persistence"
)

// relay holds the outbox relay and the connections its sinks own
type relay struct {
	poller     *outbox_poller.Poller
	dispatcher *outbox_poller.Dispatcher
	closers    []func(ctx context.Context) error
}

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"data_dir", cfg.Storage.DataDir,
	)

	store, err := filestore.Open(&cfg.Storage, log)
	if err != nil {
		log.Error("Failed to open ledger store", "error", err)
		os.Exit(1)
	}

	services := components.CreateServices(store, cfg, service.SystemClock, log)

	var outboxRelay *relay
	if cfg.Outbox.Enabled {
		outboxRelay, err = newRelay(appCtx, cfg, store, log)
		if err != nil {
			log.Error("Failed to initialize outbox relay", "error", err)
			os.Exit(1)
		}
	}

	server := api_gateway.NewServer(log, cfg, services)

	// Create error channel for server errors
	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if outboxRelay != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outboxRelay.poller.Start(appCtx)
		}()
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	log.Info("Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Stop taking requests before the relay so no commit is left behind
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	cancelAppCtx()
	wg.Wait()

	if outboxRelay != nil {
		outboxRelay.dispatcher.Shutdown()
		for _, closeFn := range outboxRelay.closers {
			if err := closeFn(shutdownCtx); err != nil {
				log.Error("Error closing outbox sink", "error", err)
			}
		}
	}

	// Finish a commit whose file replacement was interrupted
	if err := store.Flush(); err != nil {
		log.Error("Failed to flush ledger store", "error", err)
		serverErr = err
	}

	if serverErr != nil {
		log.Error("Ledger API shutdown completed with errors", "error", serverErr)
		os.Exit(1)
	}
	log.Info("Ledger API shutdown completed successfully")
}

// newRelay connects every enabled sink and builds the outbox poller
func newRelay(ctx context.Context, cfg *config.Config, store *filestore.Store, log *slog.Logger) (*relay, error) {
	r := &relay{}
	var (
		sinks []outbox_poller.Sink
		dlq   outbox_poller.DeadLetterPublisher
	)

	fail := func(err error) (*relay, error) {
		for _, closeFn := range r.closers {
			_ = closeFn(ctx)
		}
		return nil, err
	}

	if cfg.Kafka.Enabled {
		producer, err := producers.NewLedgerEventProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return fail(fmt.Errorf("kafka ledger producer: %w", err))
		}
		sinks = append(sinks, producer)
		r.closers = append(r.closers, func(context.Context) error { return producer.Close() })

		dlqProducer, err := producers.NewDLQProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return fail(fmt.Errorf("kafka DLQ producer: %w", err))
		}
		if dlqProducer != nil {
			dlq = dlqProducer
			r.closers = append(r.closers, func(context.Context) error { return dlqProducer.Close() })
		}
	}

	if cfg.MongoDB.Enabled {
		mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			return fail(err)
		}
		r.closers = append(r.closers, mongoDB.Close)

		archive, err := mongo.NewArchiveRepository(ctx, log, mongoDB)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, archive)
	}

	if cfg.Postgres.Enabled {
		postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return fail(err)
		}
		r.closers = append(r.closers, func(context.Context) error {
			postgresDB.Close()
			return nil
		})
		sinks = append(sinks, postgres.NewArchiveRepository(log, postgresDB))
	}

	if len(sinks) == 0 {
		log.Warn("Outbox is enabled but no sink is configured; events will be discarded once relayed")
	}

	dispatcher, err := outbox_poller.NewDispatcher(&cfg.WorkerPool, sinks, log)
	if err != nil {
		return fail(err)
	}
	r.dispatcher = dispatcher
	r.poller = outbox_poller.NewPoller(&cfg.Outbox, store, dispatcher, dlq, log)
	return r, nil
}
