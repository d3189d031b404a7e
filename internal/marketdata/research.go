package marketdata

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/stocksim/stocksim/models"
)

var headlineTemplates = []struct {
	format    string
	sentiment string
}{
	{"%s beats quarterly earnings expectations", "positive"},
	{"%s announces expanded share buyback program", "positive"},
	{"Analysts raise price targets on %s after product launch", "positive"},
	{"%s misses revenue estimates, shares slide", "negative"},
	{"Regulators open inquiry into %s business practices", "negative"},
	{"%s guidance unchanged ahead of earnings call", "neutral"},
	{"Institutional ownership of %s steady this quarter", "neutral"},
}

var newsSources = []string{"MarketWire", "Finance Daily", "The Street Ledger", "Global Markets Desk"}

var sectorNames = []string{
	"Technology", "Healthcare", "Financials", "Energy",
	"Consumer Discretionary", "Industrials", "Utilities", "Real Estate",
}

type indicatorSpec struct {
	name string
	unit string
	min  float64
	max  float64
}

var indicatorSpecs = []indicatorSpec{
	{"GDP Growth Rate", "%", -1.0, 4.5},
	{"Unemployment Rate", "%", 3.0, 7.5},
	{"Inflation Rate", "%", 1.0, 6.0},
	{"Federal Funds Rate", "%", 0.25, 5.5},
	{"Consumer Confidence Index", "index", 85, 130},
}

// MockResearch generates news, sector and macro-indicator data. It sits
// behind the ResearchProvider interface so a real feed can replace it
// without touching the dispatcher.
type MockResearch struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockResearch creates a generator. A zero seed picks a time-based
// one.
func NewMockResearch(seed int64) *MockResearch {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockResearch{rng: rand.New(rand.NewSource(seed))}
}

// News generates up to limit headlines. When symbols are given each
// headline is attributed to one of them round-robin; otherwise generic
// market headlines are produced.
func (r *MockResearch) News(ctx context.Context, symbols []string, limit int) ([]models.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]models.NewsItem, 0, limit)
	now := time.Now()
	for i := 0; i < limit; i++ {
		tpl := headlineTemplates[r.rng.Intn(len(headlineTemplates))]
		subject := "the market"
		symbol := ""
		if len(symbols) > 0 {
			symbol = symbols[i%len(symbols)]
			subject = symbol
		}
		items = append(items, models.NewsItem{
			Headline:    fmt.Sprintf(tpl.format, subject),
			Source:      newsSources[r.rng.Intn(len(newsSources))],
			Symbol:      symbol,
			Sentiment:   tpl.sentiment,
			PublishedAt: now.Add(-time.Duration(r.rng.Intn(48)) * time.Hour),
		})
	}
	return items, nil
}

// Sectors generates a daily performance figure per sector, bounded to
// roughly plus or minus three percent.
func (r *MockResearch) Sectors(ctx context.Context) ([]models.SectorPerformance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.SectorPerformance, len(sectorNames))
	for i, name := range sectorNames {
		out[i] = models.SectorPerformance{
			Sector:        name,
			ChangePercent: (r.rng.Float64()*2 - 1) * 3,
		}
	}
	return out, nil
}

// Indicators generates the macro indicator set with values inside each
// indicator's plausible range.
func (r *MockResearch) Indicators(ctx context.Context) ([]models.EconomicIndicator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.EconomicIndicator, len(indicatorSpecs))
	for i, spec := range indicatorSpecs {
		value := spec.min + r.rng.Float64()*(spec.max-spec.min)
		previous := spec.min + r.rng.Float64()*(spec.max-spec.min)
		out[i] = models.EconomicIndicator{
			Name:     spec.name,
			Value:    value,
			Unit:     spec.unit,
			Previous: previous,
		}
	}
	return out, nil
}
