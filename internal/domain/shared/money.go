package shared

import "github.com/shopspring/decimal"

// MinorUnitPlaces is the number of decimal places money is kept at
const MinorUnitPlaces = 2

// RoundMoney rounds half away from zero to minor units
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// ValidAmount reports whether d is a positive amount expressible in minor units
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(RoundMoney(d))
}
