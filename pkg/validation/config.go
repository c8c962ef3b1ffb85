// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/design-loan-quote/pkg/amortization"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
)

// Error collects every problem found in a record so callers can report them
// all at once.
type Error struct {
	Subject  string
	Problems []string
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return "validation failed: " + strings.Join(e.Problems, "; ")
	}
	return fmt.Sprintf("%s is invalid: %s", e.Subject, strings.Join(e.Problems, "; "))
}

func (e *Error) add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *Error) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// LoanTermsInput is the raw loan configuration of a design before the unit
// and basis strings have been parsed.
type LoanTermsInput struct {
	Name              string
	Price             float64
	TermLength        int
	TermUnit          string
	InterestRate      float64
	InterestRateBasis string
}

// ValidateLoanTerms rejects configurations an admin should not be able to
// save. A design that passes always yields a non-empty schedule.
func ValidateLoanTerms(in LoanTermsInput) error {
	verr := &Error{Subject: subject(in.Name)}

	if strings.TrimSpace(in.Name) == "" {
		verr.add("name is required")
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price <= 0 {
		verr.add("price must be greater than 0, got %v", in.Price)
	}
	if math.IsNaN(in.InterestRate) || math.IsInf(in.InterestRate, 0) || in.InterestRate < 0 {
		verr.add("interest rate must be 0 or greater, got %v", in.InterestRate)
	}

	unit, unitOK := amortization.ParseTermUnit(in.TermUnit)
	if !unitOK {
		verr.add("unsupported term unit %q, expected %s or %s", in.TermUnit, amortization.Months, amortization.Years)
	}
	if _, ok := amortization.ParseRateBasis(in.InterestRateBasis); !ok {
		verr.add("unsupported interest rate basis %q, expected %s or %s",
			in.InterestRateBasis, amortization.Monthly, amortization.Yearly)
	}

	if in.TermLength < 1 {
		verr.add("term length must be at least 1, got %d", in.TermLength)
	} else if unitOK && amortization.TermInMonths(in.TermLength, unit) == 0 {
		verr.add("term of %d %s exceeds the maximum of %d months", in.TermLength, unit, constants.MaxTermMonths)
	}

	return verr.orNil()
}

// LoanTermsWarnings returns non-fatal observations about a configuration that
// usually indicate a data entry mistake.
func LoanTermsWarnings(in LoanTermsInput) []string {
	var warnings []string
	name := subject(in.Name)

	basis, basisOK := amortization.ParseRateBasis(in.InterestRateBasis)
	if basisOK && basis == amortization.Monthly && in.InterestRate > constants.WarnMonthlyRatePercent {
		warnings = append(warnings, fmt.Sprintf("%s has a monthly interest rate of %.2f%%, check whether a yearly rate was intended",
			name, in.InterestRate))
	}
	if in.InterestRate == 0 {
		warnings = append(warnings, fmt.Sprintf("%s is financed without interest", name))
	}
	if unit, ok := amortization.ParseTermUnit(in.TermUnit); ok {
		if months := amortization.TermInMonths(in.TermLength, unit); months > constants.WarnTermMonths {
			warnings = append(warnings, fmt.Sprintf("%s has a term of %d months, longer than %d",
				name, months, constants.WarnTermMonths))
		}
	}

	return warnings
}

func subject(name string) string {
	if strings.TrimSpace(name) == "" {
		return "design"
	}
	return fmt.Sprintf("design '%s'", name)
}
