package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore(t *testing.T) *filestore.Store {
	t.Helper()
	store, err := filestore.Open(&config.StorageConfig{DataDir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	return store
}

func seedCustomer(t *testing.T, store *filestore.Store, email string) customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer("Test", "Customer", email, "secret1", testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.Customers.Add(c))
	return c
}

func seedAccount(t *testing.T, store *filestore.Store, owner customer.Customer, kind account.Kind, balance string) account.Account {
	t.Helper()
	acc, err := account.NewAccount(owner.ID, kind, shared.CurrencyNGN, dec("0.05"), testNow.Add(-30*24*time.Hour))
	require.NoError(t, err)
	acc.Balance = dec(balance)
	require.NoError(t, store.Accounts.Add(acc))
	return acc
}

// MockInterestSettler is a mock implementation of InterestSettler
type MockInterestSettler struct {
	mock.Mock
}

func (m *MockInterestSettler) Settle(ctx context.Context, acc account.Account, kind ledger.Kind, now time.Time) (account.Account, *ledger.Transaction) {
	args := m.Called(ctx, acc, kind, now)
	tx, _ := args.Get(1).(*ledger.Transaction)
	return args.Get(0).(account.Account), tx
}

// MockEntryRecorder is a mock implementation of EntryRecorder
type MockEntryRecorder struct {
	mock.Mock
}

func (m *MockEntryRecorder) Record(ctx context.Context, posting Posting) error {
	args := m.Called(ctx, posting)
	return args.Error(0)
}

func byAccountNumber(number string) interface{} {
	return mock.MatchedBy(func(a account.Account) bool { return a.AccountNumber == number })
}
