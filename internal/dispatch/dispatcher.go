// Package dispatch routes typed requests to the analytics engines, the
// ledger and the research feeds, and shapes the response envelope.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stocksim/stocksim/internal/analyze"
	"github.com/stocksim/stocksim/internal/ledger"
	"github.com/stocksim/stocksim/models"
)

const defaultTimeframe = "1m"

// Dispatcher wires the request-type switch to the core components.
type Dispatcher struct {
	provider models.SeriesProvider
	research models.ResearchProvider
	ledger   *ledger.Ledger
	notifier models.Notifier
	logger   zerolog.Logger
}

// New creates a dispatcher. notifier may be a no-op implementation but
// must not be nil.
func New(provider models.SeriesProvider, research models.ResearchProvider, led *ledger.Ledger, notifier models.Notifier) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		research: research,
		ledger:   led,
		notifier: notifier,
		logger:   log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch handles one typed request. Unexpected internal failures are
// recovered here and reported generically; they never partially apply
// to the ledger, whose operations validate before mutating.
func (d *Dispatcher) Dispatch(ctx context.Context, req *models.Request) (resp *models.Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Str("type", req.Type).Msg("request handler panicked")
			resp = errorResponse(req.Type, "internal error handling request")
		}
	}()

	switch req.Type {
	case models.RequestStockAnalysis:
		return d.stockAnalysis(ctx, req)
	case models.RequestPortfolio:
		return d.portfolio(req)
	case models.RequestTradeExecution:
		return d.tradeExecution(ctx, req)
	case models.RequestMarketResearch:
		return d.marketResearch(ctx, req)
	default:
		return errorResponse(req.Type, fmt.Sprintf("unknown request type %q", req.Type))
	}
}

func (d *Dispatcher) stockAnalysis(ctx context.Context, req *models.Request) *models.Response {
	symbol := stringParam(req.Parameters, "symbol")
	if symbol == "" {
		return errorResponse(req.Type, "symbol is required")
	}
	timeframe := stringParam(req.Parameters, "timeframe")
	if timeframe == "" {
		timeframe = defaultTimeframe
	}

	series, err := d.provider.GetSeries(ctx, symbol, timeframe)
	if err != nil {
		return errorResponse(req.Type, fmt.Sprintf("fetch series for %s: %v", symbol, err))
	}
	return okResponse(req.Type, analyze.Analyze(series))
}

func (d *Dispatcher) portfolio(req *models.Request) *models.Response {
	action := stringParam(req.Parameters, "action")
	switch action {
	case "", "get":
		return okResponse(req.Type, d.ledger.Snapshot())
	case "refresh_prices":
		return okResponse(req.Type, d.ledger.RefreshPrices())
	case "reset":
		return okResponse(req.Type, d.ledger.Reset())
	case "performance":
		period := stringParam(req.Parameters, "period")
		report, err := d.ledger.AnalyzePerformance(period)
		if err != nil {
			return errorResponse(req.Type, err.Error())
		}
		return okResponse(req.Type, report)
	default:
		return errorResponse(req.Type, fmt.Sprintf("unknown portfolio action %q", action))
	}
}

func (d *Dispatcher) tradeExecution(ctx context.Context, req *models.Request) *models.Response {
	order := &models.Order{
		Symbol:     stringParam(req.Parameters, "symbol"),
		Action:     stringParam(req.Parameters, "action"),
		Type:       stringParam(req.Parameters, "type"),
		Quantity:   floatParam(req.Parameters, "quantity"),
		LimitPrice: floatParam(req.Parameters, "price"),
	}
	if order.Type == "" {
		order.Type = models.OrderMarket
	}

	result, err := d.ledger.ExecuteOrder(ctx, order)
	if err != nil {
		var verr *ledger.ValidationError
		var ferr *ledger.InsufficientFundsError
		var perr *ledger.InsufficientPositionError
		if errors.As(err, &verr) || errors.As(err, &ferr) || errors.As(err, &perr) {
			return errorResponse(req.Type, err.Error())
		}
		d.logger.Error().Err(err).Str("symbol", order.Symbol).Msg("order execution failed")
		return errorResponse(req.Type, "order execution failed")
	}

	if result.Status == models.OrderExecuted && result.Transaction != nil {
		d.notifyTrade(*result.Transaction)
	}
	return okResponse(req.Type, result)
}

func (d *Dispatcher) marketResearch(ctx context.Context, req *models.Request) *models.Response {
	researchType := stringParam(req.Parameters, "type")
	switch researchType {
	case "news":
		items, err := d.research.News(ctx, stringsParam(req.Parameters, "symbols"), intParam(req.Parameters, "limit"))
		if err != nil {
			return errorResponse(req.Type, err.Error())
		}
		return okResponse(req.Type, items)
	case "sector":
		sectors, err := d.research.Sectors(ctx)
		if err != nil {
			return errorResponse(req.Type, err.Error())
		}
		return okResponse(req.Type, sectors)
	case "indicators":
		indicators, err := d.research.Indicators(ctx)
		if err != nil {
			return errorResponse(req.Type, err.Error())
		}
		return okResponse(req.Type, indicators)
	case "batch_analysis":
		symbols := stringsParam(req.Parameters, "symbols")
		if len(symbols) == 0 {
			return errorResponse(req.Type, "symbols is required for batch analysis")
		}
		timeframe := stringParam(req.Parameters, "timeframe")
		if timeframe == "" {
			timeframe = defaultTimeframe
		}
		reports, err := d.batchAnalysis(ctx, symbols, timeframe)
		if err != nil {
			return errorResponse(req.Type, err.Error())
		}
		return okResponse(req.Type, reports)
	default:
		return errorResponse(req.Type, fmt.Sprintf("unknown research type %q", researchType))
	}
}

// batchAnalysis analyzes symbols concurrently. Each goroutine writes to
// its own index, so results come back in request order regardless of
// completion order.
func (d *Dispatcher) batchAnalysis(ctx context.Context, symbols []string, timeframe string) ([]*models.AnalysisReport, error) {
	reports := make([]*models.AnalysisReport, len(symbols))
	g, ctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i, symbol := i, symbol // per-iteration copies for Go <1.22
		g.Go(func() error {
			series, err := d.provider.GetSeries(ctx, symbol, timeframe)
			if err != nil {
				return fmt.Errorf("fetch series for %s: %w", symbol, err)
			}
			reports[i] = analyze.Analyze(series)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// notifyTrade delivers the notification off the request path; failures
// are logged, never surfaced.
func (d *Dispatcher) notifyTrade(tx models.Transaction) {
	go func() {
		if err := d.notifier.NotifyTrade(context.Background(), tx); err != nil {
			d.logger.Warn().Err(err).Str("symbol", tx.Symbol).Msg("trade notification failed")
		}
	}()
}

func okResponse(reqType string, data any) *models.Response {
	return &models.Response{Status: models.StatusOK, Type: reqType, Data: data}
}

func errorResponse(reqType, message string) *models.Response {
	return &models.Response{Status: models.StatusError, Type: reqType, Error: message}
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// floatParam accepts JSON numbers, integers and numeric strings, since
// dispatch payloads arrive loosely typed.
func floatParam(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func intParam(params map[string]any, key string) int {
	return int(floatParam(params, key))
}

func stringsParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
