package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/filebank-ledger/internal/bank/service"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/ledger"
	applog "github.com/filebank-ledger/internal/logger"
)

// InterestSettlerImpl implements the InterestSettler interface
type InterestSettlerImpl struct {
	logger *slog.Logger
}

// NewInterestSettler creates a new InterestSettlerImpl
func NewInterestSettler(logger *slog.Logger) service.InterestSettler {
	return &InterestSettlerImpl{logger: logger}
}

// Settle applies accrued interest to savings accounts. Accounts without the
// interest capability, and savings accounts with nothing accrued, come back
// unchanged with no record.
func (s *InterestSettlerImpl) Settle(ctx context.Context, acc account.Account, kind ledger.Kind, now time.Time) (account.Account, *ledger.Transaction) {
	ib, ok := acc.AsInterestBearing()
	if !ok {
		return acc, nil
	}

	updated, applied, ok := ib.ApplyInterest(now)
	if !ok {
		return acc, nil
	}

	tx := ledger.NewInterest(kind, acc.AccountNumber, applied, ib.Rate(), now)

	applog.FromContext(ctx, s.logger).Info("Interest settled",
		"account_number", acc.AccountNumber,
		"interest", applied.String(),
		"rate", ib.Rate().String(),
		"new_bal", updated.Balance.String(),
	)
	return updated, &tx
}
