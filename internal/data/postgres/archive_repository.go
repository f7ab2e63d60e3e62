// Package postgres archives committed ledger transactions into PostgreSQL for
// reporting. The JSON tables stay the source of truth.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/filebank-ledger/internal/platform/persistence"
	"github.com/google/uuid"
)

// ArchiveRepository writes ledger events into the ledger_transactions table
type ArchiveRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewArchiveRepository creates a new PostgreSQL archive repository
func NewArchiveRepository(logger *slog.Logger, db *persistence.PostgresDB) *ArchiveRepository {
	return &ArchiveRepository{
		querier: db.Pool(),
		logger:  logger.With("component", "postgres_archive"),
	}
}

// Name identifies the sink in logs
func (r *ArchiveRepository) Name() string {
	return "postgres"
}

// Deliver archives one event. Redelivery of an archived transaction is a no-op.
func (r *ArchiveRepository) Deliver(ctx context.Context, event outbox.LedgerEvent) error {
	query := `
		INSERT INTO ledger_transactions (transaction_id, account_number, customer_id, kind, amount, currency,
			counterparty_account_number, counterparty_customer_id, interest_rate, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transaction_id) DO NOTHING
	`

	counterpartyAccount, counterpartyCustomer, rate := nullableDetails(event)

	tag, err := r.querier.Exec(ctx, query,
		event.ID,
		event.AccountNumber,
		event.CustomerID,
		string(event.Kind),
		event.Amount.StringFixed(2),
		event.Currency.String(),
		counterpartyAccount,
		counterpartyCustomer,
		rate,
		event.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to archive ledger transaction",
			"transaction_id", event.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to archive ledger transaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug("Ledger transaction already archived", "transaction_id", event.ID.String())
	}
	return nil
}

// nullableDetails maps empty details to SQL NULL
func nullableDetails(event outbox.LedgerEvent) (*string, *uuid.UUID, *string) {
	var (
		account  *string
		customer *uuid.UUID
		rate     *string
	)
	if n := event.Details.CounterpartyAccountNumber; n != "" {
		account = &n
	}
	if id := event.Details.CounterpartyCustomerID; id != uuid.Nil {
		customer = &id
	}
	if event.Details.InterestRate != nil {
		r := event.Details.InterestRate.String()
		rate = &r
	}
	return account, customer, rate
}
