package shared

import (
	"errors"
	"strings"
)

var ErrInvalidCurrency = errors.New("currency must be one of NGN, USD")

// Currency tags the denomination of an account. Amounts are never converted
// between currencies.
type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency accepts a currency code in any letter case
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyNGN, CurrencyUSD:
		return true
	}
	return false
}

func (c Currency) String() string { return string(c) }
