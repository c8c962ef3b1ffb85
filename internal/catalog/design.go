// Package catalog stores construction designs and the loan terms offered on
// them. Schedules are never stored; they are recomputed from the terms.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iwvelando/design-loan-quote/internal/config"
	"github.com/iwvelando/design-loan-quote/pkg/amortization"
	"github.com/iwvelando/design-loan-quote/pkg/validation"
)

// ErrNotFound is returned when a design does not exist.
var ErrNotFound = errors.New("design not found")

// Design is a catalog entry with its financing terms.
type Design struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	Category         string    `json:"category,omitempty" yaml:"category,omitempty"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty"`
	Price            float64   `json:"price" yaml:"price"`
	MaxLoanTerm      int       `json:"maxLoanTerm" yaml:"maxLoanTerm"`
	LoanTermType     string    `json:"loanTermType" yaml:"loanTermType"`
	InterestRate     float64   `json:"interestRate" yaml:"interestRate"`
	InterestRateType string    `json:"interestRateType" yaml:"interestRateType"`
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Repository persists designs.
type Repository interface {
	List(ctx context.Context) ([]Design, error)
	Get(ctx context.Context, id string) (Design, error)
	Save(ctx context.Context, design Design) (Design, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// LoanTerms maps the design record onto calculator inputs. The price is the
// amount financed.
func (d Design) LoanTerms() amortization.LoanTerms {
	return amortization.LoanTerms{
		Principal:         d.Price,
		TermLength:        d.MaxLoanTerm,
		TermUnit:          amortization.TermUnit(d.LoanTermType),
		InterestRate:      d.InterestRate,
		InterestRateBasis: amortization.RateBasis(d.InterestRateType),
	}.Normalize()
}

// Validate reports whether an admin may save the design.
func (d Design) Validate() error {
	return validation.ValidateLoanTerms(d.loanTermsInput())
}

// Warnings lists suspicious but savable values.
func (d Design) Warnings() []string {
	return validation.LoanTermsWarnings(d.loanTermsInput())
}

// Normalized trims text fields and rewrites the unit and basis to their
// canonical spellings.
func (d Design) Normalized() Design {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
	if unit, ok := amortization.ParseTermUnit(d.LoanTermType); ok {
		d.LoanTermType = string(unit)
	}
	if basis, ok := amortization.ParseRateBasis(d.InterestRateType); ok {
		d.InterestRateType = string(basis)
	}
	return d
}

func (d Design) loanTermsInput() validation.LoanTermsInput {
	return validation.LoanTermsInput{
		Name:              d.Name,
		Price:             d.Price,
		TermLength:        d.MaxLoanTerm,
		TermUnit:          d.LoanTermType,
		InterestRate:      d.InterestRate,
		InterestRateBasis: d.InterestRateType,
	}
}

// FromConfig converts a design from a catalog file.
func FromConfig(dc config.DesignConfig) Design {
	return Design{
		ID:               dc.ID,
		Name:             dc.Name,
		Category:         dc.Category,
		Description:      dc.Description,
		Price:            dc.Price,
		MaxLoanTerm:      dc.MaxLoanTerm,
		LoanTermType:     dc.LoanTermType,
		InterestRate:     dc.InterestRate,
		InterestRateType: dc.InterestRateType,
	}.Normalized()
}

// Seed saves every design from a catalog file. Designs whose name already
// exists in the repository are skipped.
func Seed(ctx context.Context, repo Repository, designs []config.DesignConfig) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		names[strings.ToLower(d.Name)] = struct{}{}
	}

	saved := 0
	for _, dc := range designs {
		design := FromConfig(dc)
		if _, ok := names[strings.ToLower(design.Name)]; ok {
			continue
		}
		if err := design.Validate(); err != nil {
			return saved, err
		}
		if _, err := repo.Save(ctx, design); err != nil {
			return saved, err
		}
		names[strings.ToLower(design.Name)] = struct{}{}
		saved++
	}
	return saved, nil
}

// prepare assigns an ID and timestamps before a design is written.
func prepare(design Design, existing *Design, now time.Time, newID func() string) Design {
	design = design.Normalized()
	if design.ID == "" {
		design.ID = newID()
	}
	if existing != nil && !existing.CreatedAt.IsZero() {
		design.CreatedAt = existing.CreatedAt
	} else if design.CreatedAt.IsZero() {
		design.CreatedAt = now
	}
	design.UpdatedAt = now
	return design
}
