// Package quote builds loan quotations for catalog designs. The public
// preview and the admin export both go through Builder.Build, so the two
// surfaces always agree on the quoted figures for a design.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/pkg/amortization"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/iwvelando/design-loan-quote/pkg/datetime"
	"github.com/iwvelando/design-loan-quote/pkg/format"
	"go.uber.org/zap"
)

// Options carries the per-request details of a quotation.
type Options struct {
	CustomerName string
	// StartDate is the YYYY-MM of the first payment. Empty leaves rows undated.
	StartDate   string
	GeneratedAt time.Time
}

// Quotation is a design together with its computed financing.
type Quotation struct {
	Design        catalog.Design         `json:"design" yaml:"design"`
	CustomerName  string                 `json:"customerName,omitempty" yaml:"customerName,omitempty"`
	GeneratedAt   time.Time              `json:"generatedAt" yaml:"generatedAt"`
	Terms         amortization.LoanTerms `json:"terms" yaml:"terms"`
	TermInMonths  int                    `json:"termInMonths" yaml:"termInMonths"`
	MonthlyRate   float64                `json:"monthlyRate" yaml:"monthlyRate"`
	TermDisplay   string                 `json:"termDisplay" yaml:"termDisplay"`
	RateDisplay   string                 `json:"rateDisplay" yaml:"rateDisplay"`
	LoanAvailable bool                   `json:"loanAvailable" yaml:"loanAvailable"`
	Schedule      []amortization.Row     `json:"schedule" yaml:"schedule"`
	DueDates      []string               `json:"dueDates,omitempty" yaml:"dueDates,omitempty"`
	Summary       amortization.Summary   `json:"summary" yaml:"summary"`
	// TotalRows is the full schedule length, kept when Schedule is truncated.
	TotalRows int `json:"totalRows" yaml:"totalRows"`
}

// Builder computes quotations.
type Builder struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger, now: time.Now}
}

// Build computes the full quotation for a design. A design whose terms cannot
// be financed produces a quotation with LoanAvailable false and an empty
// schedule rather than an error; only a malformed StartDate is an error.
func (b *Builder) Build(design catalog.Design, opts Options) (Quotation, error) {
	terms := design.LoanTerms()
	q, err := b.build(terms, opts)
	if err != nil {
		return Quotation{}, err
	}
	q.Design = design

	b.logger.Debug("built quotation",
		zap.String("op", "quote.Build"),
		zap.String("design", design.ID),
		zap.Int("termMonths", q.TermInMonths),
		zap.Bool("loanAvailable", q.LoanAvailable),
	)
	return q, nil
}

// Calculate computes a quotation for ad hoc terms that have no design.
func (b *Builder) Calculate(terms amortization.LoanTerms, opts Options) (Quotation, error) {
	q, err := b.build(terms.Normalize(), opts)
	if err != nil {
		return Quotation{}, err
	}

	b.logger.Debug("calculated schedule",
		zap.String("op", "quote.Calculate"),
		zap.Int("termMonths", q.TermInMonths),
		zap.Bool("loanAvailable", q.LoanAvailable),
	)
	return q, nil
}

func (b *Builder) build(terms amortization.LoanTerms, opts Options) (Quotation, error) {
	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = b.now()
	}

	schedule := terms.Schedule()
	q := Quotation{
		CustomerName:  opts.CustomerName,
		GeneratedAt:   generatedAt.UTC(),
		Terms:         terms,
		TermInMonths:  len(schedule),
		TermDisplay:   format.Term(len(schedule), terms.TermUnit),
		RateDisplay:   format.Rate(terms.InterestRate, terms.InterestRateBasis),
		LoanAvailable: len(schedule) > 0,
		Schedule:      schedule,
		Summary:       amortization.Summarize(schedule),
		TotalRows:     len(schedule),
	}
	if q.LoanAvailable {
		q.MonthlyRate = terms.MonthlyRate()
	}

	if opts.StartDate != "" {
		start, err := datetime.ParseMonth(opts.StartDate)
		if err != nil {
			return Quotation{}, err
		}
		dueDates, err := datetime.DueDates(start, len(schedule))
		if err != nil {
			return Quotation{}, err
		}
		q.DueDates = dueDates
	}

	return q, nil
}

// Preview returns a copy limited to the first n schedule rows. The summary
// still reflects the full schedule. n <= 0 selects the default preview length.
func (q Quotation) Preview(n int) Quotation {
	if n <= 0 {
		n = constants.DefaultPreviewRows
	}
	preview := q
	preview.Schedule = amortization.Head(q.Schedule, n)
	if q.DueDates != nil {
		limit := len(preview.Schedule)
		preview.DueDates = append([]string(nil), q.DueDates[:limit]...)
	}
	return preview
}

// DueDate returns the due date for the row at index i, or "" when undated.
func (q Quotation) DueDate(i int) string {
	if i < 0 || i >= len(q.DueDates) {
		return ""
	}
	return q.DueDates[i]
}

// Service looks designs up and quotes them.
type Service struct {
	repo        catalog.Repository
	builder     *Builder
	previewRows int
}

// NewService creates a Service. previewRows <= 0 selects the default.
func NewService(repo catalog.Repository, builder *Builder, previewRows int) *Service {
	if builder == nil {
		builder = NewBuilder(nil)
	}
	if previewRows <= 0 {
		previewRows = constants.DefaultPreviewRows
	}
	return &Service{repo: repo, builder: builder, previewRows: previewRows}
}

// Builder exposes the underlying builder for ad hoc calculations.
func (s *Service) Builder() *Builder {
	return s.builder
}

// Preview returns the public preview of a design's financing.
func (s *Service) Preview(ctx context.Context, id string) (Quotation, error) {
	q, err := s.Quotation(ctx, id, Options{})
	if err != nil {
		return Quotation{}, err
	}
	return q.Preview(s.previewRows), nil
}

// Quotation returns the full quotation of a design for export.
func (s *Service) Quotation(ctx context.Context, id string, opts Options) (Quotation, error) {
	design, err := s.repo.Get(ctx, id)
	if err != nil {
		return Quotation{}, fmt.Errorf("failed to load design %s: %w", id, err)
	}
	return s.builder.Build(design, opts)
}

// All quotes every design in the repository.
func (s *Service) All(ctx context.Context, opts Options) ([]Quotation, error) {
	designs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	quotations := make([]Quotation, 0, len(designs))
	for _, design := range designs {
		q, err := s.builder.Build(design, opts)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, q)
	}
	return quotations, nil
}
