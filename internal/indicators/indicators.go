// Package indicators provides technical-indicator calculations over
// price series. All functions are total: insufficient input yields an
// empty result, never an error.
package indicators

// Substituted for a zero average loss so RS stays finite.
const zeroLossGuard = 1e-5

// SMA computes the simple moving average over each sliding window of
// size period. The result is aligned to the tail of the input:
// out[i] corresponds to prices[i+period-1]. Returns nil when the input
// is shorter than period.
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}
	out := make([]float64, 0, len(prices)-period+1)
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average with the conventional
// 2/(period+1) multiplier. The first value is the SMA of the first
// period prices; the recurrence is applied as an iterative fold so
// long series cost constant stack. Same length law as SMA.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)

	out := make([]float64, 0, len(prices)-period+1)
	out = append(out, ema)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema += multiplier * (prices[i] - ema)
		out = append(out, ema)
	}
	return out
}

// RSI computes the Wilder-smoothed relative strength index. The initial
// average gain/loss is a simple mean over the first period deltas;
// subsequent averages use Wilder smoothing. Requires more than period
// prices, otherwise returns nil. Output length is len(prices) - period.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, 0, len(prices)-period)
	out = append(out, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		avgLoss = zeroLossGuard
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
