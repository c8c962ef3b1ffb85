package format

import (
	"fmt"

	"github.com/iwvelando/design-loan-quote/pkg/amortization"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
)

// Term renders a normalized term for display in the unit the design was
// configured with, e.g. "2 years" or "24 months". A term that is not a whole
// number of years falls back to months.
func Term(termMonths int, unit amortization.TermUnit) string {
	if termMonths <= 0 {
		return "-"
	}
	if unit == amortization.Years && termMonths%constants.MonthsPerYear == 0 {
		return plural(termMonths/constants.MonthsPerYear, "year")
	}
	return plural(termMonths, "month")
}

// Rate renders an interest rate with its basis, e.g. "12.00% per year".
func Rate(interestRate float64, basis amortization.RateBasis) string {
	period := "year"
	if basis == amortization.Monthly {
		period = "month"
	}
	return fmt.Sprintf("%s%% per %s", Fixed(interestRate), period)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
