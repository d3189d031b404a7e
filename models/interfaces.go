package models

import "context"

// SeriesProvider supplies ordered price series for a symbol.
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol, timeframe string) (*PriceSeries, error)
}

// QuoteSource supplies the current price for a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// ResearchProvider supplies market research data. The analytics and
// ledger core never depend on this directly; only the dispatcher does.
type ResearchProvider interface {
	News(ctx context.Context, symbols []string, limit int) ([]NewsItem, error)
	Sectors(ctx context.Context) ([]SectorPerformance, error)
	Indicators(ctx context.Context) ([]EconomicIndicator, error)
}

// Notifier receives executed trades for out-of-band notification.
type Notifier interface {
	NotifyTrade(ctx context.Context, tx Transaction) error
}
