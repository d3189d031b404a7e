package ledger

import (
	"math"
	"math/rand"
	"testing"
)

func TestAnalyzePerformance_UnknownPeriod(t *testing.T) {
	l := New(100000, &stubQuotes{price: 100})
	_, err := l.AnalyzePerformance("2w")
	if err == nil {
		t.Fatal("expected validation error for unknown period")
	}
}

func TestAnalyzePerformance_Shape(t *testing.T) {
	tests := []struct {
		period  string
		samples int
	}{
		{"1d", 24},
		{"1w", 7},
		{"1m", 30},
		{"3m", 90},
		{"1y", 365},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			l := New(100000, &stubQuotes{price: 100}).WithRand(rand.New(rand.NewSource(42)))
			report, err := l.AnalyzePerformance(tt.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(report.HistoricalValues) != tt.samples {
				t.Errorf("history length = %d, want %d", len(report.HistoricalValues), tt.samples)
			}
			last := report.HistoricalValues[len(report.HistoricalValues)-1]
			if math.Abs(last.Value-report.CurrentValue) > 1e-9 {
				t.Errorf("history must end at the current value: %v vs %v", last.Value, report.CurrentValue)
			}
			if report.HistoricalValues[0].Value != report.StartValue {
				t.Error("start value must match the first history point")
			}
			for i := 1; i < len(report.HistoricalValues); i++ {
				if report.HistoricalValues[i].Date < report.HistoricalValues[i-1].Date {
					t.Fatalf("dates not ascending at index %d", i)
				}
			}
			if report.Volatility < 0 {
				t.Errorf("volatility = %v, want >= 0", report.Volatility)
			}
		})
	}
}

func TestAnalyzePerformance_ReturnConsistency(t *testing.T) {
	l := New(100000, &stubQuotes{price: 100}).WithRand(rand.New(rand.NewSource(7)))
	report, err := l.AnalyzePerformance("1m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAbs := report.CurrentValue - report.StartValue
	if math.Abs(report.AbsoluteReturn-wantAbs) > 1e-9 {
		t.Errorf("absolute return = %v, want %v", report.AbsoluteReturn, wantAbs)
	}
	wantPct := wantAbs / report.StartValue * 100
	if math.Abs(report.PercentReturn-wantPct) > 1e-9 {
		t.Errorf("percent return = %v, want %v", report.PercentReturn, wantPct)
	}
	// 1m compounds twelve periods per year.
	wantAnnual := (math.Pow(1+wantPct/100, 12) - 1) * 100
	if math.Abs(report.AnnualizedReturn-wantAnnual) > 1e-6 {
		t.Errorf("annualized return = %v, want %v", report.AnnualizedReturn, wantAnnual)
	}
}

func TestAnalyzePerformance_OneYearUsesPercentReturn(t *testing.T) {
	l := New(100000, &stubQuotes{price: 100}).WithRand(rand.New(rand.NewSource(11)))
	report, err := l.AnalyzePerformance("1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(report.AnnualizedReturn-report.PercentReturn) > 1e-9 {
		t.Errorf("1y annualized = %v, want percent return %v", report.AnnualizedReturn, report.PercentReturn)
	}
}
