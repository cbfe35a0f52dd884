// Package decimal holds the money helpers behind the invoice calculator.
package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Parse resolves a raw form value. Empty or non-numeric input is zero.
func Parse(s string) decimal.Decimal {
	d, err := FromString(s)
	if err != nil {
		return Zero
	}
	return d
}

// Percent computes amount * (rate/100) without rounding.
func Percent(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsNegative returns true if decimal is less than zero
func IsNegative(d decimal.Decimal) bool {
	return d.LessThan(Zero)
}

// Money formats an amount with a currency symbol and exactly two
// fractional digits.
func Money(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}

// PercentLabel formats a rate as a whole percentage, e.g. "10%".
func PercentLabel(ratePercent decimal.Decimal) string {
	return ratePercent.StringFixed(0) + "%"
}
