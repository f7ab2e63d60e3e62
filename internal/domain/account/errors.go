package account

import (
	"errors"
	"fmt"

	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")
	ErrInvalidAmount     = errors.New("amount must be positive with at most two decimal places")
	ErrInvalidKind       = errors.New("account kind must be current or savings")
	ErrInvalidCurrency   = shared.ErrInvalidCurrency
	ErrInvalidRate       = errors.New("interest rate cannot be negative")
	ErrSameAccount       = errors.New("source and destination accounts must differ")
	ErrCurrencyMismatch  = errors.New("source and destination accounts hold different currencies")
)

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountNumber string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountNumber
}

// Is matches any ErrAccountNotFound when the target has no account number
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountNumber == "" {
		return true
	}
	return e.AccountNumber == t.AccountNumber
}

// ErrDuplicateAccountKind indicates the customer already holds an account of the kind
type ErrDuplicateAccountKind struct {
	CustomerID uuid.UUID
	Kind       Kind
}

func (e ErrDuplicateAccountKind) Error() string {
	return fmt.Sprintf("customer %s already holds a %s account", e.CustomerID, e.Kind)
}

// Is matches any ErrDuplicateAccountKind when the target has no customer
func (e ErrDuplicateAccountKind) Is(target error) bool {
	t, ok := target.(ErrDuplicateAccountKind)
	if !ok {
		return false
	}
	if t.CustomerID == uuid.Nil {
		return true
	}
	return e.CustomerID == t.CustomerID && e.Kind == t.Kind
}
