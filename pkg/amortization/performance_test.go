package amortization

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
)

// TestPerformance checks that the longest allowed schedule stays cheap.
func TestPerformance(t *testing.T) {
	if !testing.Verbose() {
		t.Skip("Skipping performance test. Run with -v to enable.")
	}

	start := time.Now()
	for i := 0; i < 1000; i++ {
		rows := ComputePaymentSchedule(3500000, constants.MaxTermMonths, 7.5, Yearly, Months)
		if len(rows) != constants.MaxTermMonths {
			t.Fatalf("expected %d rows, got %d", constants.MaxTermMonths, len(rows))
		}
	}
	elapsed := time.Since(start)

	t.Logf("1000 schedules of %d months: %v", constants.MaxTermMonths, elapsed)
	if elapsed > 5*time.Second {
		t.Errorf("schedule generation took %v, exceeds 5 second threshold", elapsed)
	}
}

// TestDataConsistency validates that concurrent runs produce identical schedules.
func TestDataConsistency(t *testing.T) {
	expected := ComputePaymentSchedule(1200000, 12, 12, Yearly, Months)

	var wg sync.WaitGroup
	results := make([][]Row, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ComputePaymentSchedule(1200000, 12, 12, Yearly, Months)
		}(i)
	}
	wg.Wait()

	for i, rows := range results {
		if diff := cmp.Diff(expected, rows); diff != "" {
			t.Errorf("run %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func BenchmarkComputePaymentSchedule(b *testing.B) {
	benchmarks := []struct {
		name   string
		length int
		unit   TermUnit
		rate   float64
	}{
		{"12 months", 12, Months, 12},
		{"30 years", 30, Years, 6.5},
		{"100 years", 100, Years, 6.5},
		{"zero rate", 60, Months, 0},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ComputePaymentSchedule(1200000, bm.length, bm.rate, Yearly, bm.unit)
			}
		})
	}
}

func BenchmarkSummarize(b *testing.B) {
	rows := ComputePaymentSchedule(1200000, 30, 6.5, Yearly, Years)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Summarize(rows)
	}
}
