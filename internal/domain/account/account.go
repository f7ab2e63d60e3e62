package account

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind distinguishes the two account variants
type Kind string

const (
	KindCurrent Kind = "current"
	KindSavings Kind = "savings"
)

// ParseKind accepts a kind name in any letter case
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	switch k {
	case KindCurrent, KindSavings:
		return k, nil
	}
	return "", ErrInvalidKind
}

// AccountNumberLength is the number of digits of a generated account number
const AccountNumberLength = 10

// SavingsTerms is the interest state carried only by savings accounts
type SavingsTerms struct {
	AnnualRate            decimal.Decimal `json:"AnnualRate"`
	LastInterestAppliedAt time.Time       `json:"LastInterestAppliedAt"`
}

// Account represents a bank account. It is a value: balance-changing
// operations return an updated copy and never modify the receiver.
type Account struct {
	ID            uuid.UUID       `json:"Id"`
	CustomerID    uuid.UUID       `json:"CustomerId"`
	AccountNumber string          `json:"AccountNumber"`
	Kind          Kind            `json:"Kind"`
	Currency      shared.Currency `json:"Currency"`
	Balance       decimal.Decimal `json:"Balance"`
	Savings       *SavingsTerms   `json:"Savings,omitempty"`
	CreatedAt     time.Time       `json:"CreatedAt"`
	UpdatedAt     time.Time       `json:"UpdatedAt"`
}

// NewAccount opens a zero-balance account. The rate is used only for savings
// accounts, whose interest clock starts at now.
func NewAccount(customerID uuid.UUID, kind Kind, currency shared.Currency, rate decimal.Decimal, now time.Time) (Account, error) {
	if kind != KindCurrent && kind != KindSavings {
		return Account{}, ErrInvalidKind
	}
	if !currency.Valid() {
		return Account{}, ErrInvalidCurrency
	}

	number, err := GenerateAccountNumber()
	if err != nil {
		return Account{}, err
	}

	acc := Account{
		ID:            uuid.New(),
		CustomerID:    customerID,
		AccountNumber: number,
		Kind:          kind,
		Currency:      currency,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if kind == KindSavings {
		if rate.IsNegative() {
			return Account{}, ErrInvalidRate
		}
		acc.Savings = &SavingsTerms{AnnualRate: rate, LastInterestAppliedAt: now}
	}

	return acc, nil
}

// GenerateAccountNumber returns a random decimal string of AccountNumberLength
// digits that does not start with zero
func GenerateAccountNumber() (string, error) {
	lower := new(big.Int).Exp(big.NewInt(10), big.NewInt(AccountNumberLength-1), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(lower, big.NewInt(10)), lower)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return n.Add(n, lower).String(), nil
}

// Deposit returns the account with amount added to the balance
func (a Account) Deposit(amount decimal.Decimal, now time.Time) (Account, error) {
	if !shared.ValidAmount(amount) {
		return a, ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = now
	return a, nil
}

// Withdraw returns the account with amount subtracted from the balance
func (a Account) Withdraw(amount decimal.Decimal, now time.Time) (Account, error) {
	if !shared.ValidAmount(amount) {
		return a, ErrInvalidAmount
	}

	if !a.CanWithdraw(amount) {
		return a, ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = now
	return a, nil
}

// Clone returns a copy that shares no memory with a
func (a Account) Clone() Account {
	if a.Savings != nil {
		terms := *a.Savings
		a.Savings = &terms
	}
	return a
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// AsInterestBearing exposes the interest capability of savings accounts
func (a Account) AsInterestBearing() (InterestBearing, bool) {
	if a.Kind != KindSavings || a.Savings == nil {
		return nil, false
	}
	return savings{account: a}, true
}
