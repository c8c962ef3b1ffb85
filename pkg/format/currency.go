// Package format renders quotation figures for display and export. Nothing
// here feeds back into a calculation.
package format

import (
	"strings"

	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/iwvelando/design-loan-quote/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with the given symbol and thousands
// separators (e.g., "-₱1,234.56").
func Currency(amount float64, symbol string) string {
	formatted := NumericCurrency(amount)
	if strings.HasPrefix(formatted, "-") {
		return "-" + symbol + formatted[1:]
	}
	return symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	plain := Fixed(amount)
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign = "-"
		plain = plain[1:]
	}
	return sign + groupThousands(plain)
}

// Fixed returns the amount with exactly two decimals and no separators, as
// used by machine-readable exports (e.g., "-1234.56").
func Fixed(amount float64) string {
	if !mathutil.IsFinite(amount) {
		amount = 0
	}
	fixed := decimal.NewFromFloat(amount).StringFixed(constants.CurrencyPlaces)
	if fixed == "-0.00" {
		return "0.00"
	}
	return fixed
}

func groupThousands(value string) string {
	parts := strings.SplitN(value, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
