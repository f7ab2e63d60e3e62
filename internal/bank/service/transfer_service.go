package service

import (
	"context"
	"log/slog"

	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	store    *filestore.Store
	settler  InterestSettler
	recorder EntryRecorder
	clock    Clock
	logger   *slog.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(store *filestore.Store, settler InterestSettler, recorder EntryRecorder, clock Clock, logger *slog.Logger) TransferService {
	return &TransferServiceImpl{
		store:    store,
		settler:  settler,
		recorder: recorder,
		clock:    clock,
		logger:   logger,
	}
}

// Transfer moves amount from one account to another. Every check runs before
// any balance is touched and the resulting posting is committed as one unit,
// so a rejected transfer leaves no trace.
func (s *TransferServiceImpl) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error) {
	logger := applog.FromContext(ctx, s.logger).With(
		"from_account", fromAccountNumber,
		"to_account", toAccountNumber,
		"amount", amount.String(),
	)

	logger.Info("Processing transfer")

	var posting Posting
	err := s.store.Exclusive(func() error {
		// 1. Resolve both accounts
		source, ok := s.store.Accounts.Get(fromAccountNumber)
		if !ok {
			return account.ErrAccountNotFound{AccountNumber: fromAccountNumber}
		}
		destination, ok := s.store.Accounts.Get(toAccountNumber)
		if !ok {
			return account.ErrAccountNotFound{AccountNumber: toAccountNumber}
		}

		// 2. Validate before any interest is settled
		if fromAccountNumber == toAccountNumber {
			return account.ErrSameAccount
		}
		if !shared.ValidAmount(amount) {
			return account.ErrInvalidAmount
		}
		if !source.CanWithdraw(amount) {
			return account.ErrInsufficientFunds
		}
		if source.Currency != destination.Currency {
			return account.ErrCurrencyMismatch
		}

		now := s.clock()
		var err error

		// 3. Settle source interest
		source, interest := s.settler.Settle(ctx, source, ledger.KindInterestAppliedBeforeWithdraw, now)
		if interest != nil {
			posting.Transactions = append(posting.Transactions, *interest)
		}

		// 4. Withdraw
		if source, err = source.Withdraw(amount, now); err != nil {
			return err
		}
		posting.Transactions = append(posting.Transactions, ledger.NewWithdrawal(fromAccountNumber, amount, &ledger.Counterparty{
			AccountNumber: destination.AccountNumber,
			CustomerID:    destination.CustomerID,
		}, now))

		// 5. Settle destination interest
		destination, interest = s.settler.Settle(ctx, destination, ledger.KindInterestAppliedBeforeDeposit, now)
		if interest != nil {
			posting.Transactions = append(posting.Transactions, *interest)
		}

		// 6. Deposit
		if destination, err = destination.Deposit(amount, now); err != nil {
			return err
		}
		posting.Transactions = append(posting.Transactions, ledger.NewDeposit(toAccountNumber, amount, &ledger.Counterparty{
			AccountNumber: source.AccountNumber,
			CustomerID:    source.CustomerID,
		}, now))

		// 7. Commit accounts and transactions together
		posting.Accounts = []account.Account{source, destination}
		return s.recorder.Record(ctx, posting)
	})
	if err != nil {
		if isValidationError(err) {
			logger.Warn("Transfer rejected", "error", err)
		} else {
			logger.Error("Transfer failed", "error", err)
		}
		return nil, err
	}

	logger.Info("Transfer completed", "transactions", len(posting.Transactions))
	return posting.Transactions, nil
}
