package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filebank-ledger/internal/bank/service"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/outbox"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/filebank-ledger/internal/platform/persistence"
)

// EntryRecorderImpl implements the EntryRecorder interface on top of the
// ledger store. Callers must hold the store lock.
type EntryRecorderImpl struct {
	store         *filestore.Store
	outboxEnabled bool
	logger        *slog.Logger
}

// NewEntryRecorder creates a new EntryRecorderImpl. With outboxEnabled every
// transaction also gets an outbox message in the same commit.
func NewEntryRecorder(store *filestore.Store, outboxEnabled bool, logger *slog.Logger) service.EntryRecorder {
	return &EntryRecorderImpl{
		store:         store,
		outboxEnabled: outboxEnabled,
		logger:        logger,
	}
}

// Record checks the whole posting first, applies it to the tables and commits
// them through one journaled write. A failed commit is undone in memory.
func (r *EntryRecorderImpl) Record(ctx context.Context, posting service.Posting) error {
	logger := applog.FromContext(ctx, r.logger)

	previous := make([]account.Account, 0, len(posting.Accounts))
	owners := make(map[string]account.Account, len(posting.Accounts))
	for _, acc := range posting.Accounts {
		prev, ok := r.store.Accounts.Get(acc.AccountNumber)
		if !ok {
			return account.ErrAccountNotFound{AccountNumber: acc.AccountNumber}
		}
		previous = append(previous, prev)
		owners[acc.AccountNumber] = acc
	}

	messages := make([]outbox.Message, 0, len(posting.Transactions))
	for _, tx := range posting.Transactions {
		if _, exists := r.store.Transactions.Get(tx.ID.String()); exists {
			return persistence.ErrDuplicateKey{Table: filestore.TransactionsTable, Key: tx.ID.String()}
		}
		owner, ok := owners[tx.AccountNumber]
		if !ok {
			return fmt.Errorf("transaction %s is recorded against account %s outside the posting", tx.ID, tx.AccountNumber)
		}
		if !r.outboxEnabled {
			continue
		}
		msg, err := outbox.NewMessage(outbox.LedgerEvent{
			Transaction: tx,
			CustomerID:  owner.CustomerID,
			Currency:    owner.Currency,
		}, tx.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to build outbox message for transaction %s: %w", tx.ID, err)
		}
		messages = append(messages, msg)
	}

	if err := r.apply(posting, messages); err != nil {
		r.revert(previous, posting.Transactions, messages)
		return err
	}

	tables := []persistence.Committable{r.store.Transactions, r.store.Accounts}
	if r.outboxEnabled {
		tables = append(tables, r.store.Outbox)
	}
	if err := r.store.Commit(tables...); err != nil {
		r.revert(previous, posting.Transactions, messages)
		logger.Error("Failed to commit posting, in-memory changes reverted", "error", err)
		return err
	}

	logger.Debug("Posting recorded",
		"accounts", len(posting.Accounts),
		"transactions", len(posting.Transactions),
		"outbox_messages", len(messages),
	)
	return nil
}

func (r *EntryRecorderImpl) apply(posting service.Posting, messages []outbox.Message) error {
	for _, acc := range posting.Accounts {
		if err := r.store.Accounts.Update(acc); err != nil {
			return err
		}
	}
	for _, tx := range posting.Transactions {
		if err := r.store.Transactions.Add(tx); err != nil {
			return err
		}
	}
	for _, msg := range messages {
		if err := r.store.Outbox.Add(msg); err != nil {
			return err
		}
	}
	return nil
}

// revert restores the tables to their state before apply; records that were
// never added are skipped
func (r *EntryRecorderImpl) revert(previous []account.Account, txs []ledger.Transaction, messages []outbox.Message) {
	for _, acc := range previous {
		_ = r.store.Accounts.Update(acc)
	}
	for _, tx := range txs {
		_ = r.store.Transactions.Delete(tx)
	}
	for _, msg := range messages {
		_ = r.store.Outbox.Delete(msg)
	}
}
