package quote

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/pkg/amortization"
	"go.uber.org/zap"
)

var generatedAt = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func residential() catalog.Design {
	return catalog.Design{
		ID:               "d1",
		Name:             "Two-storey residential",
		Price:            1200000,
		MaxLoanTerm:      1,
		LoanTermType:     "years",
		InterestRate:     12,
		InterestRateType: "yearly",
	}
}

func newService(t *testing.T, designs ...catalog.Design) *Service {
	t.Helper()
	repo := catalog.NewMemoryRepository()
	for _, d := range designs {
		if _, err := repo.Save(context.Background(), d); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	return NewService(repo, NewBuilder(zap.NewNop()), 6)
}

func TestBuild(t *testing.T) {
	q, err := NewBuilder(nil).Build(residential(), Options{CustomerName: "J. Santos", StartDate: "2026-11", GeneratedAt: generatedAt})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !q.LoanAvailable {
		t.Fatal("expected loan to be available")
	}
	if q.TermInMonths != 12 || len(q.Schedule) != 12 || q.TotalRows != 12 {
		t.Errorf("unexpected term %d / rows %d / total %d", q.TermInMonths, len(q.Schedule), q.TotalRows)
	}
	if q.MonthlyRate != 0.01 {
		t.Errorf("expected monthly rate 0.01, got %v", q.MonthlyRate)
	}
	if q.TermDisplay != "1 year" {
		t.Errorf("unexpected term display %q", q.TermDisplay)
	}
	if q.RateDisplay != "12.00% per year" {
		t.Errorf("unexpected rate display %q", q.RateDisplay)
	}
	if q.CustomerName != "J. Santos" || !q.GeneratedAt.Equal(generatedAt) {
		t.Errorf("unexpected request details %q %v", q.CustomerName, q.GeneratedAt)
	}
	if math.Abs(q.Summary.MonthlyPayment-106618.55) > 0.01 {
		t.Errorf("unexpected monthly payment %.4f", q.Summary.MonthlyPayment)
	}
	if len(q.DueDates) != 12 || q.DueDates[0] != "2026-11" || q.DueDates[11] != "2027-10" {
		t.Errorf("unexpected due dates %v", q.DueDates)
	}
	if q.DueDate(2) != "2027-01" || q.DueDate(12) != "" {
		t.Errorf("unexpected DueDate lookups %q %q", q.DueDate(2), q.DueDate(12))
	}
}

func TestBuildMatchesCalculator(t *testing.T) {
	design := residential()
	q, err := NewBuilder(nil).Build(design, Options{GeneratedAt: generatedAt})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	direct := amortization.ComputePaymentSchedule(1200000, 12, 12, amortization.Yearly, amortization.Months)
	if diff := cmp.Diff(direct, q.Schedule); diff != "" {
		t.Errorf("quotation schedule differs from calculator:\n%s", diff)
	}
	if q.Summary != amortization.Summarize(direct) {
		t.Errorf("quotation summary differs from calculator")
	}
}

func TestBuildUnavailableLoan(t *testing.T) {
	design := residential()
	design.Price = 0

	q, err := NewBuilder(nil).Build(design, Options{StartDate: "2026-11"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if q.LoanAvailable {
		t.Error("expected loan to be unavailable")
	}
	if len(q.Schedule) != 0 || q.Summary != (amortization.Summary{}) {
		t.Errorf("expected empty schedule and zero summary, got %d rows %+v", len(q.Schedule), q.Summary)
	}
	if q.MonthlyRate != 0 || q.TermDisplay != "-" {
		t.Errorf("unexpected rate %v / display %q", q.MonthlyRate, q.TermDisplay)
	}
	if len(q.DueDates) != 0 {
		t.Errorf("expected no due dates, got %v", q.DueDates)
	}
}

func TestBuildInvalidStartDate(t *testing.T) {
	if _, err := NewBuilder(nil).Build(residential(), Options{StartDate: "next month"}); err == nil {
		t.Fatal("expected error for invalid start date")
	}
}

func TestCalculate(t *testing.T) {
	q, err := NewBuilder(nil).Calculate(amortization.LoanTerms{
		Principal:         500000,
		TermLength:        2,
		TermUnit:          "year",
		InterestRate:      6,
		InterestRateBasis: "annual",
	}, Options{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(q.Schedule) != 24 {
		t.Errorf("expected 24 rows, got %d", len(q.Schedule))
	}
	if q.TermDisplay != "2 years" {
		t.Errorf("unexpected term display %q", q.TermDisplay)
	}
	if q.Design.ID != "" {
		t.Errorf("ad hoc quotation should not carry a design, got %+v", q.Design)
	}
}

func TestPreview(t *testing.T) {
	design := residential()
	design.MaxLoanTerm = 2
	q, err := NewBuilder(nil).Build(design, Options{StartDate: "2026-11"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	preview := q.Preview(0)
	if len(preview.Schedule) != 12 || len(preview.DueDates) != 12 {
		t.Errorf("expected default 12 preview rows, got %d rows %d dates", len(preview.Schedule), len(preview.DueDates))
	}
	if preview.TotalRows != 24 {
		t.Errorf("expected total rows 24, got %d", preview.TotalRows)
	}
	if preview.Summary != q.Summary {
		t.Error("preview summary should match the full schedule summary")
	}
	if len(q.Schedule) != 24 {
		t.Errorf("preview altered the full schedule: %d rows", len(q.Schedule))
	}

	short := q.Preview(100)
	if len(short.Schedule) != 24 {
		t.Errorf("expected full schedule when n exceeds length, got %d", len(short.Schedule))
	}
}

func TestServicePreviewAndQuotationAgree(t *testing.T) {
	svc := newService(t, residential())
	ctx := context.Background()

	preview, err := svc.Preview(ctx, "d1")
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	full, err := svc.Quotation(ctx, "d1", Options{CustomerName: "J. Santos"})
	if err != nil {
		t.Fatalf("Quotation() error = %v", err)
	}

	if len(preview.Schedule) != 6 {
		t.Errorf("expected 6 preview rows, got %d", len(preview.Schedule))
	}
	if diff := cmp.Diff(full.Schedule[:6], preview.Schedule); diff != "" {
		t.Errorf("preview rows differ from export rows:\n%s", diff)
	}
	if preview.Summary != full.Summary {
		t.Errorf("preview summary %+v differs from export summary %+v", preview.Summary, full.Summary)
	}
}

func TestServiceMissingDesign(t *testing.T) {
	svc := newService(t)
	_, err := svc.Preview(context.Background(), "missing")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceAll(t *testing.T) {
	second := residential()
	second.ID = "d2"
	second.Name = "Bungalow"
	svc := newService(t, residential(), second)

	quotations, err := svc.All(context.Background(), Options{})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(quotations) != 2 {
		t.Fatalf("expected 2 quotations, got %d", len(quotations))
	}
	if quotations[0].Design.Name != "Bungalow" {
		t.Errorf("expected quotations in catalog order, got %q first", quotations[0].Design.Name)
	}
	if svc.Builder() == nil {
		t.Error("expected builder")
	}
}
