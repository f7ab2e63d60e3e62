// Package filestore binds the ledger tables to their files in the data
// directory.
package filestore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/filebank-ledger/internal/platform/persistence"
)

// Table names, which are also the base names of the backing files
const (
	CustomersTable    = "customers"
	AccountsTable     = "accounts"
	TransactionsTable = "transactions"
	OutboxTable       = "outbox"
)

// Store owns the ledger tables. Every operation touching them must run inside
// Exclusive, and every multi-table mutation must end in a single Commit.
type Store struct {
	mu      sync.Mutex
	dataDir string
	journal *persistence.Journal
	logger  *slog.Logger

	Customers    *persistence.Table[customer.Customer]
	Accounts     *persistence.Table[account.Account]
	Transactions *persistence.Table[ledger.Transaction]
	Outbox       *persistence.Table[outbox.Message]
}

// Open creates the data directory if needed, finishes or discards any
// interrupted commit and loads every table
func Open(cfg *config.StorageConfig, logger *slog.Logger) (*Store, error) {
	logger = logger.With("component", "filestore")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}

	s := &Store{
		dataDir: cfg.DataDir,
		journal: persistence.NewJournal(filepath.Join(cfg.DataDir, persistence.JournalFileName), logger),
		logger:  logger,
	}

	if err := s.journal.Recover(s.tablePaths()...); err != nil {
		return nil, fmt.Errorf("failed to recover data directory: %w", err)
	}

	var err error
	if s.Customers, err = persistence.NewTable(CustomersTable, s.path(CustomersTable),
		func(c customer.Customer) string { return c.ID.String() }, logger); err != nil {
		return nil, err
	}
	if s.Accounts, err = persistence.NewTable(AccountsTable, s.path(AccountsTable),
		func(a account.Account) string { return a.AccountNumber }, logger); err != nil {
		return nil, err
	}
	if s.Transactions, err = persistence.NewTable(TransactionsTable, s.path(TransactionsTable),
		func(t ledger.Transaction) string { return t.ID.String() }, logger); err != nil {
		return nil, err
	}
	if s.Outbox, err = persistence.NewTable(OutboxTable, s.path(OutboxTable),
		func(m outbox.Message) string { return m.ID.String() }, logger); err != nil {
		return nil, err
	}

	logger.Info("Ledger store opened",
		"data_dir", cfg.DataDir,
		"customers", s.Customers.Len(),
		"accounts", s.Accounts.Len(),
		"transactions", s.Transactions.Len(),
		"pending_outbox", len(s.Outbox.Find(outbox.Message.Pending)),
	)
	return s, nil
}

func (s *Store) path(table string) string {
	return filepath.Join(s.dataDir, table+".json")
}

func (s *Store) tablePaths() []string {
	return []string{
		s.path(CustomersTable),
		s.path(AccountsTable),
		s.path(TransactionsTable),
		s.path(OutboxTable),
	}
}

// DataDir returns the directory holding the table files
func (s *Store) DataDir() string { return s.dataDir }

// Exclusive runs fn while holding the store lock
func (s *Store) Exclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Commit writes the given tables to disk as one unit. A commit that passed its
// commit point is a success even if some files are still to be replaced; the
// caller keeps its in-memory changes and the journal finishes the files.
func (s *Store) Commit(tables ...persistence.Committable) error {
	err := s.journal.Commit(tables...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrCommitIncomplete{}):
		s.logger.Warn("Ledger commit recorded, file replacement deferred", "tables", len(tables), "error", err)
		return nil
	default:
		s.logger.Error("Ledger commit failed", "tables", len(tables), "error", err)
		return err
	}
}

// Flush commits every table. At shutdown this also finishes a commit whose
// file replacement was interrupted.
func (s *Store) Flush() error {
	return s.Exclusive(func() error {
		return s.Commit(s.Customers, s.Accounts, s.Transactions, s.Outbox)
	})
}
