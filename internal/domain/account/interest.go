package account

import (
	"time"

	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	daysPerYear = decimal.NewFromInt(365)
	nanosPerDay = decimal.NewFromInt(int64(24 * time.Hour))
)

// InterestBearing is implemented by accounts that accrue interest
type InterestBearing interface {
	// Rate is the flat annual rate
	Rate() decimal.Decimal
	// AccruedInterest is the interest earned since the last settlement,
	// rounded to minor units
	AccruedInterest(now time.Time) decimal.Decimal
	// ApplyInterest settles accrued interest into the balance and restarts the
	// accrual clock. It reports false, and returns the account unchanged, when
	// nothing has accrued.
	ApplyInterest(now time.Time) (Account, decimal.Decimal, bool)
}

type savings struct {
	account Account
}

func (s savings) Rate() decimal.Decimal {
	return s.account.Savings.AnnualRate
}

func (s savings) AccruedInterest(now time.Time) decimal.Decimal {
	elapsed := now.Sub(s.account.Savings.LastInterestAppliedAt)
	if elapsed <= 0 || !s.account.Balance.IsPositive() {
		return decimal.Zero
	}

	days := decimal.NewFromInt(int64(elapsed)).Div(nanosPerDay)
	accrued := s.account.Balance.
		Mul(s.account.Savings.AnnualRate).
		Mul(days).
		Div(daysPerYear)

	accrued = shared.RoundMoney(accrued)
	if accrued.IsNegative() {
		return decimal.Zero
	}
	return accrued
}

func (s savings) ApplyInterest(now time.Time) (Account, decimal.Decimal, bool) {
	accrued := s.AccruedInterest(now)
	if !accrued.IsPositive() {
		return s.account, decimal.Zero, false
	}

	updated := s.account
	updated.Balance = updated.Balance.Add(accrued)
	updated.Savings = &SavingsTerms{
		AnnualRate:            s.account.Savings.AnnualRate,
		LastInterestAppliedAt: now,
	}
	updated.UpdatedAt = now
	return updated, accrued, true
}
