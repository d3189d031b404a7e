package ledger

import (
	"math"
	"time"

	"github.com/stocksim/stocksim/models"
)

// Per-step drift bound for the synthesized history, in fraction.
const historyStepDrift = 0.02

type periodSpec struct {
	samples      int
	periodsPerYr float64
	span         time.Duration
	dateFormat   string
}

var periodSpecs = map[string]periodSpec{
	"1d": {samples: 24, periodsPerYr: 365, span: 24 * time.Hour, dateFormat: "2006-01-02 15:04"},
	"1w": {samples: 7, periodsPerYr: 52, span: 7 * 24 * time.Hour, dateFormat: "2006-01-02"},
	"1m": {samples: 30, periodsPerYr: 12, span: 30 * 24 * time.Hour, dateFormat: "2006-01-02"},
	"3m": {samples: 90, periodsPerYr: 4, span: 90 * 24 * time.Hour, dateFormat: "2006-01-02"},
	"1y": {samples: 365, periodsPerYr: 1, span: 365 * 24 * time.Hour, dateFormat: "2006-01-02"},
}

// AnalyzePerformance synthesizes a historical value series ending at
// the current total value and derives return and volatility figures
// from it. The history is a stand-in for real valuation records, which
// this simulation does not keep.
func (l *Ledger) AnalyzePerformance(period string) (*models.PerformanceReport, error) {
	spec, ok := periodSpecs[period]
	if !ok {
		return nil, &ValidationError{Field: "period", Reason: "must be one of 1d, 1w, 1m, 3m, 1y"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.cash
	for _, pos := range l.positions {
		current += pos.Quantity * pos.CurrentPrice
	}

	history := l.synthesizeHistory(current, spec)
	start := history[0].Value

	absolute := current - start
	percent := 0.0
	if start != 0 {
		percent = absolute / start * 100
	}

	// Compound the period return up to a year; a one-year window is
	// already annual.
	annualized := percent
	if period != "1y" {
		annualized = (math.Pow(1+percent/100, spec.periodsPerYr) - 1) * 100
	}

	return &models.PerformanceReport{
		Period:           period,
		CurrentValue:     current,
		StartValue:       start,
		AbsoluteReturn:   absolute,
		PercentReturn:    percent,
		AnnualizedReturn: annualized,
		Volatility:       stepVolatility(history),
		HistoricalValues: history,
	}, nil
}

// synthesizeHistory walks backwards from the current value with bounded
// random steps, so the series always ends exactly at current.
func (l *Ledger) synthesizeHistory(current float64, spec periodSpec) []models.ValuePoint {
	history := make([]models.ValuePoint, spec.samples)
	step := spec.span / time.Duration(spec.samples)
	now := time.Now()

	value := current
	for i := spec.samples - 1; i >= 0; i-- {
		ts := now.Add(-time.Duration(spec.samples-1-i) * step)
		history[i] = models.ValuePoint{
			Date:  ts.Format(spec.dateFormat),
			Value: value,
		}
		drift := (l.rng.Float64()*2 - 1) * historyStepDrift
		value /= 1 + drift
	}
	return history
}

// stepVolatility is the standard deviation of step-over-step returns,
// as a percentage.
func stepVolatility(history []models.ValuePoint) float64 {
	if len(history) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, (history[i].Value-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * 100
}
