package account

import (
	"errors"
	"testing"
	"time"

	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func currentAccount(balance string) Account {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return Account{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		AccountNumber: "1234567890",
		Kind:          KindCurrent,
		Currency:      shared.CurrencyNGN,
		Balance:       dec(balance),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func savingsAccount(balance, rate string, lastApplied time.Time) Account {
	acc := currentAccount(balance)
	acc.AccountNumber = "9876543210"
	acc.Kind = KindSavings
	acc.Savings = &SavingsTerms{AnnualRate: dec(rate), LastInterestAppliedAt: lastApplied}
	return acc
}

func TestNewAccount(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	t.Run("Current", func(t *testing.T) {
		acc, err := NewAccount(customerID, KindCurrent, shared.CurrencyUSD, dec("0.05"), now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, acc.ID)
		assert.Equal(t, customerID, acc.CustomerID)
		assert.Len(t, acc.AccountNumber, AccountNumberLength)
		assert.True(t, acc.Balance.IsZero())
		assert.Nil(t, acc.Savings, "current accounts carry no interest state")
		assert.Equal(t, now, acc.CreatedAt)

		_, ok := acc.AsInterestBearing()
		assert.False(t, ok)
	})

	t.Run("Savings", func(t *testing.T) {
		acc, err := NewAccount(customerID, KindSavings, shared.CurrencyNGN, dec("0.05"), now)
		require.NoError(t, err)
		require.NotNil(t, acc.Savings)
		assert.True(t, acc.Savings.AnnualRate.Equal(dec("0.05")))
		assert.Equal(t, now, acc.Savings.LastInterestAppliedAt)

		ib, ok := acc.AsInterestBearing()
		require.True(t, ok)
		assert.True(t, ib.Rate().Equal(dec("0.05")))
	})

	testCases := []struct {
		name        string
		kind        Kind
		currency    shared.Currency
		rate        string
		expectedErr error
	}{
		{"InvalidKind", Kind("checking"), shared.CurrencyNGN, "0", ErrInvalidKind},
		{"InvalidCurrency", KindCurrent, shared.Currency("EUR"), "0", ErrInvalidCurrency},
		{"NegativeRate", KindSavings, shared.CurrencyNGN, "-0.01", ErrInvalidRate},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAccount(customerID, tc.kind, tc.currency, dec(tc.rate), now)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Savings ")
	require.NoError(t, err)
	assert.Equal(t, KindSavings, k)

	_, err = ParseKind("loan")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestGenerateAccountNumber(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		n, err := GenerateAccountNumber()
		require.NoError(t, err)
		require.Len(t, n, AccountNumberLength)
		assert.NotEqual(t, byte('0'), n[0])
		for _, c := range n {
			assert.True(t, c >= '0' && c <= '9', "unexpected character in %s", n)
		}
		seen[n] = struct{}{}
	}
	assert.Greater(t, len(seen), 190, "account numbers should practically never repeat")
}

func TestAccount_Deposit(t *testing.T) {
	now := time.Now().UTC()

	t.Run("SuccessfulDeposit", func(t *testing.T) {
		acc := currentAccount("50.00")

		updated, err := acc.Deposit(dec("20.25"), now)
		require.NoError(t, err)

		assert.True(t, updated.Balance.Equal(dec("70.25")))
		assert.Equal(t, now, updated.UpdatedAt)
		assert.True(t, acc.Balance.Equal(dec("50.00")), "receiver is not modified")
	})

	for _, amount := range []string{"0", "-10", "0.001"} {
		t.Run("InvalidAmount "+amount, func(t *testing.T) {
			acc := currentAccount("50.00")

			updated, err := acc.Deposit(dec(amount), now)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.True(t, updated.Balance.Equal(dec("50.00")))
			assert.Equal(t, acc.UpdatedAt, updated.UpdatedAt)
		})
	}
}

func TestAccount_Withdraw(t *testing.T) {
	now := time.Now().UTC()

	testCases := []struct {
		name            string
		balance         string
		amount          string
		expectedBalance string
		expectedErr     error
	}{
		{"SuccessfulWithdrawal", "1000", "300", "700", nil},
		{"EntireBalance", "300", "300", "0", nil},
		{"InsufficientFunds", "100", "100.01", "100", ErrInsufficientFunds},
		{"ZeroAmount", "100", "0", "100", ErrInvalidAmount},
		{"NegativeAmount", "100", "-5", "100", ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc := currentAccount(tc.balance)

			updated, err := acc.Withdraw(dec(tc.amount), now)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, now, updated.UpdatedAt)
			}
			assert.True(t, updated.Balance.Equal(dec(tc.expectedBalance)), "got %s", updated.Balance)
			assert.True(t, acc.Balance.Equal(dec(tc.balance)), "receiver is not modified")
		})
	}
}

func TestAccount_CanWithdraw(t *testing.T) {
	acc := currentAccount("10")
	assert.True(t, acc.CanWithdraw(dec("10")))
	assert.False(t, acc.CanWithdraw(dec("10.01")))
}

func TestAccount_Clone(t *testing.T) {
	applied := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	acc := savingsAccount("100", "0.05", applied)

	clone := acc.Clone()
	clone.Savings.AnnualRate = dec("9.99")
	clone.Savings.LastInterestAppliedAt = time.Now()

	assert.True(t, acc.Savings.AnnualRate.Equal(dec("0.05")))
	assert.Equal(t, applied, acc.Savings.LastInterestAppliedAt)
	assert.Nil(t, currentAccount("1").Clone().Savings)
}

func TestErrorMatching(t *testing.T) {
	customerID := uuid.New()
	err := error(ErrDuplicateAccountKind{CustomerID: customerID, Kind: KindSavings})

	assert.True(t, errors.Is(err, ErrDuplicateAccountKind{}))
	assert.True(t, errors.Is(err, ErrDuplicateAccountKind{CustomerID: customerID, Kind: KindSavings}))
	assert.False(t, errors.Is(err, ErrDuplicateAccountKind{CustomerID: customerID, Kind: KindCurrent}))

	notFound := error(ErrAccountNotFound{AccountNumber: "1234567890"})
	assert.True(t, errors.Is(notFound, ErrAccountNotFound{}))
	assert.False(t, errors.Is(notFound, ErrAccountNotFound{AccountNumber: "0000000001"}))
	assert.Contains(t, notFound.Error(), "1234567890")
}
