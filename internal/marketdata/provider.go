// Package marketdata generates mock price series, quotes and research
// feeds. Generators are deterministic for a given seed so tests can pin
// their output.
package marketdata

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocksim/stocksim/models"
)

// Per-step price move bound for generated series, in fraction.
const maxStepMove = 0.03

var timeframePoints = map[string]int{
	"1d": 24,
	"1w": 7,
	"1m": 30,
	"3m": 90,
	"1y": 365,
}

const defaultPoints = 30

// MockProvider synthesizes random-walk price series per symbol and
// doubles as the quote source, answering with the last generated price.
type MockProvider struct {
	mu        sync.Mutex
	rng       *rand.Rand
	lastPrice map[string]float64
	logger    zerolog.Logger
}

// NewMockProvider creates a provider. A zero seed picks a time-based
// one.
func NewMockProvider(seed int64) *MockProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockProvider{
		rng:       rand.New(rand.NewSource(seed)),
		lastPrice: make(map[string]float64),
		logger:    log.With().Str("component", "marketdata").Logger(),
	}
}

// GetSeries generates an ascending price/volume/date series for the
// symbol. The point count follows the timeframe (1d hourly over a day,
// otherwise daily); unknown timeframes get 30 points.
func (p *MockProvider) GetSeries(ctx context.Context, symbol, timeframe string) (*models.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, ok := timeframePoints[timeframe]
	if !ok {
		n = defaultPoints
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price := basePrice(symbol)
	step := 24 * time.Hour
	dateFormat := "2006-01-02"
	if timeframe == "1d" {
		step = time.Hour
		dateFormat = "2006-01-02 15:04"
	}
	start := time.Now().Add(-time.Duration(n-1) * step)

	series := &models.PriceSeries{
		Symbol:    symbol,
		Timeframe: timeframe,
		Prices:    make([]float64, n),
		Volumes:   make([]int64, n),
		Dates:     make([]string, n),
	}
	for i := 0; i < n; i++ {
		series.Prices[i] = price
		series.Volumes[i] = 100000 + p.rng.Int63n(4900000)
		series.Dates[i] = start.Add(time.Duration(i) * step).Format(dateFormat)
		price *= 1 + (p.rng.Float64()*2-1)*maxStepMove
	}
	// The walk above advanced one step past the series tail; quote from
	// the tail itself.
	p.lastPrice[symbol] = series.Prices[n-1]

	p.logger.Debug().Str("symbol", symbol).Str("timeframe", timeframe).Int("points", n).Msg("series generated")
	return series, nil
}

// Quote returns the last generated price for the symbol with a small
// jitter, or the symbol's base price if no series was generated yet.
func (p *MockProvider) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.lastPrice[symbol]
	if !ok {
		price = basePrice(symbol)
	}
	price *= 1 + (p.rng.Float64()*2-1)*0.01
	p.lastPrice[symbol] = price
	return price, nil
}

// basePrice maps a symbol to a stable starting price in [20, 500).
func basePrice(symbol string) float64 {
	sum := 0
	for _, c := range symbol {
		sum = sum*31 + int(c)
	}
	if sum < 0 {
		sum = -sum
	}
	return 20 + float64(sum%480)
}
