// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/internal/quote"
)

// FindQuotation finds a quotation by the name of its design.
// Returns a pointer to the quotation if found, nil otherwise.
func FindQuotation(results []quote.Quotation, name string) *quote.Quotation {
	for i := range results {
		if results[i].Design.Name == name {
			return &results[i]
		}
	}
	return nil
}

// SampleDesigns returns a small catalog covering yearly, monthly and
// zero-rate financing.
func SampleDesigns() []catalog.Design {
	return []catalog.Design{
		{
			ID:               "two-storey",
			Name:             "Two-storey residential",
			Category:         "residential",
			Price:            1200000,
			MaxLoanTerm:      12,
			LoanTermType:     "months",
			InterestRate:     12,
			InterestRateType: "yearly",
		},
		{
			ID:               "bungalow",
			Name:             "Bungalow",
			Category:         "residential",
			Price:            500000,
			MaxLoanTerm:      2,
			LoanTermType:     "years",
			InterestRate:     6,
			InterestRateType: "yearly",
		},
		{
			ID:               "warehouse",
			Name:             "Warehouse shell",
			Category:         "commercial",
			Price:            3500000,
			MaxLoanTerm:      60,
			LoanTermType:     "months",
			InterestRate:     0,
			InterestRateType: "monthly",
		},
	}
}
