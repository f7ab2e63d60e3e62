package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxAccountNumberAttempts bounds regeneration after an account number collision
const maxAccountNumberAttempts = 5

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	store           *filestore.Store
	settler         InterestSettler
	recorder        EntryRecorder
	defaultCurrency shared.Currency
	savingsRate     decimal.Decimal
	clock           Clock
	logger          *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	store *filestore.Store,
	settler InterestSettler,
	recorder EntryRecorder,
	cfg *config.LedgerConfig,
	clock Clock,
	logger *slog.Logger,
) AccountService {
	return &AccountServiceImpl{
		store:           store,
		settler:         settler,
		recorder:        recorder,
		defaultCurrency: shared.Currency(cfg.DefaultCurrency),
		savingsRate:     decimal.NewFromFloat(cfg.SavingsInterestRate),
		clock:           clock,
		logger:          logger,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, customerID uuid.UUID, kind account.Kind, currency shared.Currency) (account.Account, error) {
	var acc account.Account
	err := s.store.Exclusive(func() error {
		if _, ok := s.store.Customers.Get(customerID.String()); !ok {
			return customer.ErrCustomerNotFound{CustomerID: customerID}
		}
		var err error
		acc, err = s.openAccount(ctx, customerID, kind, currency)
		return err
	})
	return acc, err
}

func (s *AccountServiceImpl) CreateAccountByEmail(ctx context.Context, email string, kind account.Kind, currency shared.Currency) (account.Account, error) {
	email = customer.NormalizeEmail(email)

	var acc account.Account
	err := s.store.Exclusive(func() error {
		c, ok := s.customerByEmail(email)
		if !ok {
			return customer.ErrCustomerNotFound{Email: email}
		}
		var err error
		acc, err = s.openAccount(ctx, c.ID, kind, currency)
		return err
	})
	return acc, err
}

// openAccount expects the store lock to be held
func (s *AccountServiceImpl) openAccount(ctx context.Context, customerID uuid.UUID, kind account.Kind, currency shared.Currency) (account.Account, error) {
	logger := applog.FromContext(ctx, s.logger).With("customer_id", customerID.String(), "kind", string(kind))

	if currency == "" {
		currency = s.defaultCurrency
	}

	if _, exists := s.store.Accounts.FindOne(func(a account.Account) bool {
		return a.CustomerID == customerID && a.Kind == kind
	}); exists {
		logger.Warn("Customer already holds an account of this kind")
		return account.Account{}, account.ErrDuplicateAccountKind{CustomerID: customerID, Kind: kind}
	}

	var acc account.Account
	for attempt := 1; ; attempt++ {
		var err error
		acc, err = account.NewAccount(customerID, kind, currency, s.savingsRate, s.clock())
		if err != nil {
			logger.Warn("Rejected account details", "error", err)
			return account.Account{}, err
		}
		if _, taken := s.store.Accounts.Get(acc.AccountNumber); !taken {
			break
		}
		if attempt == maxAccountNumberAttempts {
			return account.Account{}, fmt.Errorf("failed to allocate a free account number after %d attempts", attempt)
		}
		logger.Warn("Generated account number already in use, retrying", "attempt", attempt)
	}

	if err := s.store.Accounts.Add(acc); err != nil {
		return account.Account{}, err
	}
	if err := s.store.Commit(s.store.Accounts); err != nil {
		_ = s.store.Accounts.Delete(acc)
		return account.Account{}, err
	}

	logger.Info("Account created", "account_number", acc.AccountNumber, "currency", string(acc.Currency))
	return acc, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, accountNumber string) (account.Account, error) {
	var acc account.Account
	err := s.store.Exclusive(func() error {
		var ok bool
		if acc, ok = s.store.Accounts.Get(accountNumber); !ok {
			return account.ErrAccountNotFound{AccountNumber: accountNumber}
		}
		return nil
	})
	return acc, err
}

func (s *AccountServiceImpl) GetAccountsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]account.Account, error) {
	var accounts []account.Account
	err := s.store.Exclusive(func() error {
		if _, ok := s.store.Customers.Get(customerID.String()); !ok {
			return customer.ErrCustomerNotFound{CustomerID: customerID}
		}
		accounts = s.accountsOf(customerID)
		return nil
	})
	return accounts, err
}

func (s *AccountServiceImpl) GetAccountsByCustomerEmail(ctx context.Context, email string) ([]account.Account, error) {
	email = customer.NormalizeEmail(email)

	var accounts []account.Account
	err := s.store.Exclusive(func() error {
		c, ok := s.customerByEmail(email)
		if !ok {
			return customer.ErrCustomerNotFound{Email: email}
		}
		accounts = s.accountsOf(c.ID)
		return nil
	})
	return accounts, err
}

func (s *AccountServiceImpl) GetTransactions(ctx context.Context, accountNumber string) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := s.store.Exclusive(func() error {
		if _, ok := s.store.Accounts.Get(accountNumber); !ok {
			return account.ErrAccountNotFound{AccountNumber: accountNumber}
		}
		txs = s.store.Transactions.Find(func(t ledger.Transaction) bool {
			return t.AccountNumber == accountNumber
		})
		return nil
	})
	return txs, err
}

func (s *AccountServiceImpl) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error) {
	return s.cashMovement(ctx, accountNumber, amount, ledger.KindDeposit)
}

func (s *AccountServiceImpl) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error) {
	return s.cashMovement(ctx, accountNumber, amount, ledger.KindWithdraw)
}

func (s *AccountServiceImpl) cashMovement(ctx context.Context, accountNumber string, amount decimal.Decimal, kind ledger.Kind) ([]ledger.Transaction, error) {
	logger := applog.FromContext(ctx, s.logger).With("account_number", accountNumber, "kind", string(kind))

	var posting Posting
	err := s.store.Exclusive(func() error {
		acc, ok := s.store.Accounts.Get(accountNumber)
		if !ok {
			return account.ErrAccountNotFound{AccountNumber: accountNumber}
		}
		if !shared.ValidAmount(amount) {
			return account.ErrInvalidAmount
		}
		if kind == ledger.KindWithdraw && !acc.CanWithdraw(amount) {
			return account.ErrInsufficientFunds
		}

		now := s.clock()
		interestKind := ledger.KindInterestAppliedBeforeDeposit
		if kind == ledger.KindWithdraw {
			interestKind = ledger.KindInterestAppliedBeforeWithdraw
		}

		acc, interest := s.settler.Settle(ctx, acc, interestKind, now)
		if interest != nil {
			posting.Transactions = append(posting.Transactions, *interest)
		}

		var err error
		var tx ledger.Transaction
		if kind == ledger.KindDeposit {
			acc, err = acc.Deposit(amount, now)
			tx = ledger.NewDeposit(accountNumber, amount, nil, now)
		} else {
			acc, err = acc.Withdraw(amount, now)
			tx = ledger.NewWithdrawal(accountNumber, amount, nil, now)
		}
		if err != nil {
			return err
		}

		posting.Accounts = []account.Account{acc}
		posting.Transactions = append(posting.Transactions, tx)
		return s.recorder.Record(ctx, posting)
	})
	if err != nil {
		if isValidationError(err) {
			logger.Warn("Cash movement rejected", "amount", amount.String(), "error", err)
		} else {
			logger.Error("Cash movement failed", "amount", amount.String(), "error", err)
		}
		return nil, err
	}

	logger.Info("Cash movement recorded", "amount", amount.String(), "transactions", len(posting.Transactions))
	return posting.Transactions, nil
}

// customerByEmail expects a normalized email and the store lock to be held
func (s *AccountServiceImpl) customerByEmail(email string) (customer.Customer, bool) {
	return s.store.Customers.FindOne(func(c customer.Customer) bool {
		return c.Email == email
	})
}

func (s *AccountServiceImpl) accountsOf(customerID uuid.UUID) []account.Account {
	return s.store.Accounts.Find(func(a account.Account) bool {
		return a.CustomerID == customerID
	})
}

// isValidationError reports whether err is a rejected request rather than a failure
func isValidationError(err error) bool {
	return errors.Is(err, account.ErrInvalidAmount) ||
		errors.Is(err, account.ErrInsufficientFunds) ||
		errors.Is(err, account.ErrAccountNotFound{}) ||
		errors.Is(err, account.ErrSameAccount) ||
		errors.Is(err, account.ErrCurrencyMismatch)
}
