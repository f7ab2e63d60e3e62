package service

import (
	"context"
	"time"

	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerService manages customer identities
type CustomerService interface {
	// CreateCustomer registers a customer
	// Returns ErrDuplicateEmail if the email is already registered
	CreateCustomer(ctx context.Context, firstName, lastName, email, password string) (customer.Customer, error)

	// Authenticate resolves the customer owning email if password matches.
	// The returned identity is what callers pass to every later operation.
	// Returns ErrInvalidCredentials otherwise
	Authenticate(ctx context.Context, email, password string) (customer.Customer, error)

	GetCustomerByID(ctx context.Context, customerID uuid.UUID) (customer.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (customer.Customer, error)

	// UpdateCustomerDetails rewrites name and email
	// Returns ErrCustomerNotFound, or ErrDuplicateEmail if the email belongs to someone else
	UpdateCustomerDetails(ctx context.Context, customerID uuid.UUID, firstName, lastName, email string) (customer.Customer, error)
}

// AccountService manages accounts and cash movements on a single account
type AccountService interface {
	// CreateAccount opens an account; an empty currency selects the configured default
	// Returns ErrCustomerNotFound, or ErrDuplicateAccountKind if the customer holds one of that kind
	CreateAccount(ctx context.Context, customerID uuid.UUID, kind account.Kind, currency shared.Currency) (account.Account, error)
	CreateAccountByEmail(ctx context.Context, email string, kind account.Kind, currency shared.Currency) (account.Account, error)

	// GetAccount returns ErrAccountNotFound for unknown numbers
	GetAccount(ctx context.Context, accountNumber string) (account.Account, error)
	GetAccountsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]account.Account, error)
	GetAccountsByCustomerEmail(ctx context.Context, email string) ([]account.Account, error)

	// GetTransactions lists the transactions of an account in the order they were recorded
	GetTransactions(ctx context.Context, accountNumber string) ([]ledger.Transaction, error)

	// Deposit and Withdraw move cash, settling savings interest first
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error)
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error)
}

// TransferService moves funds between two accounts
type TransferService interface {
	// Transfer settles interest on each side before touching its balance and
	// returns the recorded transactions in order
	Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error)
}

// Posting is the complete outcome of one ledger operation: the updated
// accounts and the transactions documenting the change, in order
type Posting struct {
	Accounts     []account.Account
	Transactions []ledger.Transaction
}

// InterestSettler settles accrued interest on accounts that bear it
type InterestSettler interface {
	// Settle returns the account with interest applied and the record
	// documenting it, or the account unchanged and nil if nothing accrued
	Settle(ctx context.Context, acc account.Account, kind ledger.Kind, now time.Time) (account.Account, *ledger.Transaction)
}

// EntryRecorder stores a posting. Either the whole posting is committed or
// none of it is visible afterwards.
type EntryRecorder interface {
	Record(ctx context.Context, posting Posting) error
}

// Clock supplies the current time to operations
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}
