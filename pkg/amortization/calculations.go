// Package amortization computes fixed-payment loan schedules for catalog designs.
//
// Every function in this package is pure: a schedule is recomputed from its
// inputs on each call and nothing is cached between calls, so the same terms
// always produce bit-identical rows no matter which surface asks for them.
package amortization

import (
	"math"
	"strings"

	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/iwvelando/design-loan-quote/pkg/mathutil"
)

// TermUnit is the unit a loan term length is expressed in.
type TermUnit string

// RateBasis is the period an interest rate is quoted against.
type RateBasis string

const (
	Months TermUnit = constants.TermUnitMonths
	Years  TermUnit = constants.TermUnitYears

	Monthly RateBasis = constants.RateBasisMonthly
	Yearly  RateBasis = constants.RateBasisYearly
)

// ParseTermUnit accepts the spellings found in design records ("month",
// "Months", "yr", ...). An empty value defaults to months.
func ParseTermUnit(value string) (TermUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "month", "months", "mo", "monthly":
		return Months, true
	case "year", "years", "yr", "yrs", "yearly", "annual", "annually":
		return Years, true
	}
	return "", false
}

// ParseRateBasis accepts the spellings found in design records. An empty value
// defaults to yearly.
func ParseRateBasis(value string) (RateBasis, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "year", "years", "yearly", "annual", "annually", "apr":
		return Yearly, true
	case "month", "months", "monthly":
		return Monthly, true
	}
	return "", false
}

// LoanTerms describes the financing offered for a design.
type LoanTerms struct {
	Principal         float64   `json:"principal" yaml:"principal"`
	TermLength        int       `json:"termLength" yaml:"termLength"`
	TermUnit          TermUnit  `json:"termUnit" yaml:"termUnit"`
	InterestRate      float64   `json:"interestRate" yaml:"interestRate"`
	InterestRateBasis RateBasis `json:"interestRateBasis" yaml:"interestRateBasis"`
}

// Row holds the values for a given payment period.
type Row struct {
	Month            int     `json:"month" yaml:"month"`
	Payment          float64 `json:"payment" yaml:"payment"`
	PrincipalPortion float64 `json:"principalPortion" yaml:"principalPortion"`
	InterestPortion  float64 `json:"interestPortion" yaml:"interestPortion"`
	RemainingBalance float64 `json:"remainingBalance" yaml:"remainingBalance"`
}

// Summary holds the headline figures derived from a schedule.
type Summary struct {
	MonthlyPayment  float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalInterest   float64 `json:"totalInterest" yaml:"totalInterest"`
	TotalAmountPaid float64 `json:"totalAmountPaid" yaml:"totalAmountPaid"`
	LoanAmount      float64 `json:"loanAmount" yaml:"loanAmount"`
}

// TermInMonths normalizes a term length to months. It returns 0 for an
// unknown unit or a length that would not fit in a schedule.
func TermInMonths(termLength int, unit TermUnit) int {
	if termLength < 1 {
		return 0
	}
	switch unit {
	case Months:
		if termLength > constants.MaxTermMonths {
			return 0
		}
		return termLength
	case Years:
		if termLength > constants.MaxTermMonths/constants.MonthsPerYear {
			return 0
		}
		return termLength * constants.MonthsPerYear
	}
	return 0
}

// MonthlyRate converts a percentage rate on the given basis into a monthly
// decimal rate. It returns NaN for an unknown basis.
func MonthlyRate(interestRate float64, basis RateBasis) float64 {
	switch basis {
	case Yearly:
		return (interestRate / constants.PercentageMultiplier) / constants.MonthsPerYear
	case Monthly:
		return interestRate / constants.PercentageMultiplier
	}
	return math.NaN()
}

// MonthlyPayment calculates the fixed payment for a loan using the standard
// amortization formula.
func MonthlyPayment(principal, monthlyRate float64, termMonths int) float64 {
	if termMonths < 1 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}
	discountFactor := 1 - math.Pow(1+monthlyRate, -float64(termMonths))
	if discountFactor == 0 {
		// The rate is too small to register against 1.0.
		return principal / float64(termMonths)
	}
	return principal * monthlyRate / discountFactor
}

// ComputePaymentSchedule produces the fixed-payment schedule for the given
// terms. Out-of-domain inputs (non-positive principal or term, negative or
// non-finite rate, unknown unit or basis) yield an empty schedule, as do
// terms large enough that a row or a total overflows float64.
func ComputePaymentSchedule(principal float64, termLength int, interestRate float64, basis RateBasis, unit TermUnit) []Row {
	if !mathutil.IsFinite(principal) || principal <= 0 {
		return []Row{}
	}
	termMonths := TermInMonths(termLength, unit)
	if termMonths < 1 {
		return []Row{}
	}
	monthlyRate := MonthlyRate(interestRate, basis)
	if !mathutil.IsFinite(monthlyRate) || monthlyRate < 0 {
		return []Row{}
	}
	rows := schedule(principal, termMonths, monthlyRate)
	if !finiteSchedule(rows) {
		return []Row{}
	}
	return rows
}

// finiteSchedule reports whether every row and every running total that
// Summarize would produce is finite.
func finiteSchedule(rows []Row) bool {
	var paid, interest, principal float64
	for _, row := range rows {
		paid += row.Payment
		interest += row.InterestPortion
		principal += row.PrincipalPortion
		if !mathutil.IsFinite(row.Payment) || !mathutil.IsFinite(row.PrincipalPortion) ||
			!mathutil.IsFinite(row.InterestPortion) || !mathutil.IsFinite(row.RemainingBalance) ||
			!mathutil.IsFinite(paid) || !mathutil.IsFinite(interest) || !mathutil.IsFinite(principal) {
			return false
		}
	}
	return true
}

// Normalize maps unit and basis spellings onto their canonical values.
// Unknown spellings are kept as-is so the schedule degrades to empty.
func (t LoanTerms) Normalize() LoanTerms {
	if unit, ok := ParseTermUnit(string(t.TermUnit)); ok {
		t.TermUnit = unit
	}
	if basis, ok := ParseRateBasis(string(t.InterestRateBasis)); ok {
		t.InterestRateBasis = basis
	}
	return t
}

// Schedule is ComputePaymentSchedule applied to the receiver.
func (t LoanTerms) Schedule() []Row {
	return ComputePaymentSchedule(t.Principal, t.TermLength, t.InterestRate, t.InterestRateBasis, t.TermUnit)
}

// TermInMonths is the normalized term of the receiver, 0 when invalid.
func (t LoanTerms) TermInMonths() int {
	return TermInMonths(t.TermLength, t.TermUnit)
}

// MonthlyRate is the normalized monthly decimal rate of the receiver.
func (t LoanTerms) MonthlyRate() float64 {
	return MonthlyRate(t.InterestRate, t.InterestRateBasis)
}

func schedule(principal float64, termMonths int, monthlyRate float64) []Row {
	payment := MonthlyPayment(principal, monthlyRate, termMonths)
	rows := make([]Row, 0, termMonths)
	balance := principal

	for month := 1; month <= termMonths; month++ {
		interest := balance * monthlyRate
		principalPortion := payment - interest
		if month == termMonths {
			// Absorb floating point drift so the schedule ends at exactly zero.
			principalPortion = balance
			balance = 0
		} else {
			balance -= principalPortion
		}
		rows = append(rows, Row{
			Month:            month,
			Payment:          principalPortion + interest,
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
			RemainingBalance: balance,
		})
	}

	return rows
}

// Summarize reduces a schedule to its headline figures. An empty schedule
// summarizes to all zeros.
func Summarize(rows []Row) Summary {
	var summary Summary
	if len(rows) == 0 {
		return summary
	}
	summary.MonthlyPayment = rows[0].Payment
	for _, row := range rows {
		summary.TotalInterest += row.InterestPortion
		summary.TotalAmountPaid += row.Payment
		summary.LoanAmount += row.PrincipalPortion
	}
	return summary
}

// Head returns a copy of at most the first n rows. The input is left untouched.
func Head(rows []Row, n int) []Row {
	if n < 0 || n > len(rows) {
		n = len(rows)
	}
	head := make([]Row, n)
	copy(head, rows[:n])
	return head
}
