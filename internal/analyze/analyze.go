// Package analyze turns a price series into a trend/signal/action
// report. The engine is pure and stateless; callers may invoke it
// concurrently.
package analyze

import (
	"time"

	"github.com/stocksim/stocksim/internal/indicators"
	"github.com/stocksim/stocksim/models"
)

// Indicator periods used by the report.
const (
	minSeriesLength = 50

	smaShortPeriod = 20
	smaLongPeriod  = 50
	emaFastPeriod  = 12
	emaSlowPeriod  = 26
	rsiPeriod      = 14
)

// RSI band thresholds.
const (
	rsiOverboughtLevel = 70
	rsiOversoldLevel   = 30
)

// Confidence is clamped to this range.
const (
	minConfidence = 0.05
	maxConfidence = 0.95
)

// Analyze computes indicator signals and a scored recommendation for
// the series. A series shorter than 50 points yields a report with
// status "insufficient_data" and no recommendation; this is a status,
// not an error.
func Analyze(series *models.PriceSeries) *models.AnalysisReport {
	report := &models.AnalysisReport{
		Symbol:      series.Symbol,
		Timeframe:   series.Timeframe,
		GeneratedAt: time.Now(),
	}
	if series.Len() < minSeriesLength {
		report.Status = models.StatusInsufficientData
		return report
	}

	prices := series.Prices
	price := series.Last()
	sma20 := latest(indicators.SMA(prices, smaShortPeriod))
	sma50 := latest(indicators.SMA(prices, smaLongPeriod))
	ema12 := latest(indicators.EMA(prices, emaFastPeriod))
	ema26 := latest(indicators.EMA(prices, emaSlowPeriod))
	rsi := latest(indicators.RSI(prices, rsiPeriod))

	trend := models.TrendDown
	if sma20 > sma50 {
		trend = models.TrendUp
	}

	// Simplified MACD proxy: fast vs. slow EMA, no signal-line crossover.
	macdSignal := models.SignalBearish
	if ema12 > ema26 {
		macdSignal = models.SignalBullish
	}

	rsiSignal := models.RSINeutral
	switch {
	case rsi > rsiOverboughtLevel:
		rsiSignal = models.RSIOverbought
	case rsi < rsiOversoldLevel:
		rsiSignal = models.RSIOversold
	}

	report.Status = models.StatusOK
	report.CurrentPrice = price
	report.Trend = trend
	report.MACDSignal = macdSignal
	report.RSISignal = rsiSignal
	report.RSI = rsi
	report.SMA20 = sma20
	report.SMA50 = sma50
	report.EMA12 = ema12
	report.EMA26 = ema26
	report.Recommendation = score(price, sma20, sma50, macdSignal, rsiSignal)
	return report
}

// score runs the three-step recommendation walk. Each step appends
// exactly one reason, in step order, so the reasons list doubles as an
// audit trail of the decision.
func score(price, sma20, sma50 float64, macdSignal, rsiSignal string) *models.Recommendation {
	action := models.ActionHold
	confidence := 0.5
	reasons := make([]string, 0, 3)

	// Step 1: moving-average alignment.
	switch {
	case price > sma20 && sma20 > sma50:
		action = models.ActionBuy
		confidence += 0.15
		reasons = append(reasons, "price above both moving averages with bullish alignment")
	case price < sma20 && sma20 < sma50:
		action = models.ActionSell
		confidence += 0.15
		reasons = append(reasons, "price below both moving averages with bearish alignment")
	default:
		reasons = append(reasons, "mixed moving-average alignment, no directional edge")
	}

	// Step 2: MACD proxy.
	if macdSignal == models.SignalBullish {
		switch action {
		case models.ActionBuy:
			confidence += 0.10
			reasons = append(reasons, "bullish MACD crossover confirms buy")
		case models.ActionSell:
			confidence -= 0.05
			reasons = append(reasons, "bullish MACD crossover contradicts sell")
		default:
			action = models.ActionBuy
			confidence += 0.05
			reasons = append(reasons, "bullish MACD crossover suggests buy")
		}
	} else {
		switch action {
		case models.ActionSell:
			confidence += 0.10
			reasons = append(reasons, "bearish MACD crossover confirms sell")
		case models.ActionBuy:
			confidence -= 0.05
			reasons = append(reasons, "bearish MACD crossover contradicts buy")
		default:
			action = models.ActionSell
			confidence += 0.05
			reasons = append(reasons, "bearish MACD crossover suggests sell")
		}
	}

	// Step 3: RSI bands.
	switch rsiSignal {
	case models.RSIOverbought:
		switch action {
		case models.ActionSell:
			confidence += 0.15
			reasons = append(reasons, "overbought RSI confirms sell")
		case models.ActionBuy:
			confidence -= 0.10
			reasons = append(reasons, "overbought RSI contradicts buy")
		default:
			action = models.ActionSell
			confidence += 0.10
			reasons = append(reasons, "overbought RSI suggests sell")
		}
	case models.RSIOversold:
		switch action {
		case models.ActionBuy:
			confidence += 0.15
			reasons = append(reasons, "oversold RSI confirms buy")
		case models.ActionSell:
			confidence -= 0.10
			reasons = append(reasons, "oversold RSI contradicts sell")
		default:
			action = models.ActionBuy
			confidence += 0.10
			reasons = append(reasons, "oversold RSI suggests buy")
		}
	default:
		reasons = append(reasons, "RSI in neutral range")
	}

	if confidence < minConfidence {
		confidence = minConfidence
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return &models.Recommendation{
		Action:     action,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

func latest(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
