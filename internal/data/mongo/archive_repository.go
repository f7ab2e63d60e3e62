// Package mongo archives committed ledger transactions as documents
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/filebank-ledger/internal/platform/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// ArchiveCollectionName is the collection holding archived transactions
	ArchiveCollectionName = "ledger_transactions"
)

// documentInserter is the part of *mongo.Collection the archive needs
type documentInserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// ArchiveRepository stores one document per ledger transaction, keyed by the
// transaction id
type ArchiveRepository struct {
	collection documentInserter
	logger     *slog.Logger
	now        func() time.Time
}

// NewArchiveRepository creates the repository and makes sure the transaction
// id is unique in the collection
func NewArchiveRepository(ctx context.Context, logger *slog.Logger, db *persistence.MongoDB) (*ArchiveRepository, error) {
	if err := db.EnsureUniqueIndex(ctx, ArchiveCollectionName, "transaction_id"); err != nil {
		return nil, err
	}
	return &ArchiveRepository{
		collection: db.Collection(ArchiveCollectionName),
		logger:     logger.With("component", "mongo_archive"),
		now:        time.Now,
	}, nil
}

// Name identifies the sink in logs
func (r *ArchiveRepository) Name() string {
	return "mongodb"
}

// Deliver archives one event. A duplicate transaction id means the event was
// archived by an earlier attempt.
func (r *ArchiveRepository) Deliver(ctx context.Context, event outbox.LedgerEvent) error {
	doc, err := r.toDocument(event)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Debug("Ledger transaction already archived", "transaction_id", event.ID.String())
			return nil
		}
		r.logger.Error("Failed to archive ledger transaction",
			"transaction_id", event.ID.String(),
			"error", err)
		return fmt.Errorf("failed to archive ledger transaction: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) toDocument(event outbox.LedgerEvent) (bson.D, error) {
	amount, err := primitive.ParseDecimal128(event.Amount.StringFixed(2))
	if err != nil {
		return nil, fmt.Errorf("failed to convert amount of %s: %w", event.ID, err)
	}

	doc := bson.D{
		{Key: "transaction_id", Value: event.ID.String()},
		{Key: "account_number", Value: event.AccountNumber},
		{Key: "customer_id", Value: event.CustomerID.String()},
		{Key: "kind", Value: string(event.Kind)},
		{Key: "amount", Value: amount},
		{Key: "currency", Value: event.Currency.String()},
		{Key: "occurred_at", Value: event.Timestamp.UTC()},
		{Key: "archived_at", Value: r.now().UTC()},
	}

	if n := event.Details.CounterpartyAccountNumber; n != "" {
		doc = append(doc,
			bson.E{Key: "counterparty_account_number", Value: n},
			bson.E{Key: "counterparty_customer_id", Value: event.Details.CounterpartyCustomerID.String()},
		)
	}
	if event.Details.InterestRate != nil {
		rate, err := primitive.ParseDecimal128(event.Details.InterestRate.String())
		if err != nil {
			return nil, fmt.Errorf("failed to convert interest rate of %s: %w", event.ID, err)
		}
		doc = append(doc, bson.E{Key: "interest_rate", Value: rate})
	}
	return doc, nil
}
