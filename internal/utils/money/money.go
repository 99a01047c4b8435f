package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExponents maps ISO 4217 currency codes to their minor-unit
// exponent. Codes not listed use the common exponent of 2.
var minorUnitExponents = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
}

// Exponent returns the minor-unit exponent for a currency code.
func Exponent(currencyCode string) int32 {
	if exp, ok := minorUnitExponents[currencyCode]; ok {
		return exp
	}
	return 2
}

// ToMinorUnits converts a decimal amount to an integer count of minor units
// for the given currency. It fails if the amount carries precision below
// the currency's minor unit: posting 10.005 GBP is a client error, not
// something to round away silently.
func ToMinorUnits(amount decimal.Decimal, currencyCode string) (int64, error) {
	exp := Exponent(currencyCode)
	scaled := amount.Shift(exp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-minor-unit precision for currency %s", amount.String(), currencyCode)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s overflows minor units for currency %s", amount.String(), currencyCode)
	}
	return scaled.IntPart(), nil
}

// FromMinorUnits converts an integer count of minor units back to a decimal
// amount for the given currency.
func FromMinorUnits(minor int64, currencyCode string) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-Exponent(currencyCode))
}
