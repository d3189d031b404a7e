// Package ledger owns the simulated brokerage state: cash, positions
// and the transaction log. All mutations go through one mutex so a
// validate-then-apply sequence is atomic.
package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocksim/stocksim/models"
)

const defaultMaxDriftPct = 2.0

// Quantities below this are treated as a fully closed position.
const quantityEpsilon = 1e-9

// Ledger is the single mutable aggregate for one simulated account.
// It is safe for concurrent use.
type Ledger struct {
	mu           sync.Mutex
	cash         float64
	positions    map[string]*models.Position
	transactions []models.Transaction

	startingCash float64
	maxDriftPct  float64
	quotes       models.QuoteSource
	rng          *rand.Rand
	logger       zerolog.Logger
}

// New creates a ledger with the given starting cash and quote source.
func New(startingCash float64, quotes models.QuoteSource) *Ledger {
	return &Ledger{
		cash:         startingCash,
		positions:    make(map[string]*models.Position),
		startingCash: startingCash,
		maxDriftPct:  defaultMaxDriftPct,
		quotes:       quotes,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       log.With().Str("component", "ledger").Logger(),
	}
}

// WithRand overrides the randomness source used for price drift and
// performance synthesis. Returns the ledger for chaining.
func (l *Ledger) WithRand(r *rand.Rand) *Ledger {
	l.rng = r
	return l
}

// WithMaxDrift sets the per-refresh price drift bound in percent.
// Negative values are ignored; zero disables drift entirely.
func (l *Ledger) WithMaxDrift(pct float64) *Ledger {
	if pct >= 0 {
		l.maxDriftPct = pct
	}
	return l
}

// ValidateOrder checks order fields against the allowed enums and
// ranges. It never mutates state.
func (l *Ledger) ValidateOrder(order *models.Order) error {
	if order == nil {
		return &ValidationError{Field: "order", Reason: "missing"}
	}
	if order.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "required"}
	}
	if order.Action != models.ActionBuy && order.Action != models.ActionSell {
		return &ValidationError{Field: "action", Reason: "must be buy or sell"}
	}
	if order.Type != models.OrderMarket && order.Type != models.OrderLimit {
		return &ValidationError{Field: "type", Reason: "must be market or limit"}
	}
	if order.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if order.Type == models.OrderLimit && order.LimitPrice <= 0 {
		return &ValidationError{Field: "price", Reason: "limit orders require a positive limit price"}
	}
	return nil
}

// ExecuteOrder validates, prices and applies an order as one atomic
// unit. Business rejections come back as typed errors with no state
// change. A limit order whose condition is unmet returns a pending
// result and is discarded; no order book is kept, the caller must
// resubmit.
func (l *Ledger) ExecuteOrder(ctx context.Context, order *models.Order) (*models.ExecutionResult, error) {
	if err := l.ValidateOrder(order); err != nil {
		return nil, err
	}

	price, err := l.quotes.Quote(ctx, order.Symbol)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", order.Symbol, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("quote %s: non-positive price %v", order.Symbol, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if order.Type == models.OrderLimit && !limitSatisfied(order, price) {
		return &models.ExecutionResult{
			Status: models.OrderPending,
			Message: fmt.Sprintf("limit condition not met: current %.2f vs limit %.2f; order not queued, resubmit to retry",
				price, order.LimitPrice),
		}, nil
	}

	value := order.Quantity * price

	switch order.Action {
	case models.ActionBuy:
		if value > l.cash {
			return nil, &InsufficientFundsError{Required: value, Available: l.cash}
		}
		l.applyBuy(order.Symbol, order.Quantity, price, value)
	case models.ActionSell:
		pos, ok := l.positions[order.Symbol]
		held := 0.0
		if ok {
			held = pos.Quantity
		}
		if !ok || held < order.Quantity {
			return nil, &InsufficientPositionError{Symbol: order.Symbol, Requested: order.Quantity, Held: held}
		}
		l.applySell(order.Symbol, order.Quantity, price, value)
	}

	tx := models.Transaction{
		ID:        uuid.NewString(),
		Symbol:    order.Symbol,
		Action:    order.Action,
		Quantity:  order.Quantity,
		Price:     price,
		Value:     value,
		Timestamp: time.Now(),
	}
	l.transactions = append(l.transactions, tx)

	l.logger.Info().
		Str("symbol", order.Symbol).
		Str("action", order.Action).
		Float64("quantity", order.Quantity).
		Float64("price", price).
		Msg("order executed")

	return &models.ExecutionResult{
		Status:      models.OrderExecuted,
		Message:     fmt.Sprintf("%s %.2f %s at %.2f", order.Action, order.Quantity, order.Symbol, price),
		Transaction: &tx,
		Portfolio:   l.snapshotLocked(),
	}, nil
}

// limitSatisfied gates limit execution: buys at or below the limit,
// sells at or above it.
func limitSatisfied(order *models.Order, price float64) bool {
	if order.Action == models.ActionBuy {
		return price <= order.LimitPrice
	}
	return price >= order.LimitPrice
}

func (l *Ledger) applyBuy(symbol string, quantity, price, value float64) {
	l.cash -= value
	if pos, ok := l.positions[symbol]; ok {
		newQty := pos.Quantity + quantity
		pos.CostBasis = (pos.CostBasis*pos.Quantity + value) / newQty
		pos.Quantity = newQty
		pos.CurrentPrice = price
		return
	}
	l.positions[symbol] = &models.Position{
		Symbol:       symbol,
		Quantity:     quantity,
		CostBasis:    price,
		CurrentPrice: price,
	}
}

func (l *Ledger) applySell(symbol string, quantity, price, value float64) {
	l.cash += value
	pos := l.positions[symbol]
	pos.Quantity -= quantity
	pos.CurrentPrice = price
	if pos.Quantity < quantityEpsilon {
		delete(l.positions, symbol)
	}
}

// Snapshot returns a computed copy of the portfolio. The snapshot is
// detached: mutating it does not affect the ledger.
func (l *Ledger) Snapshot() *models.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() *models.Portfolio {
	positions := make(map[string]models.Position, len(l.positions))
	total := l.cash
	for symbol, pos := range l.positions {
		positions[symbol] = *pos
		total += pos.Quantity * pos.CurrentPrice
	}
	transactions := make([]models.Transaction, len(l.transactions))
	copy(transactions, l.transactions)
	return &models.Portfolio{
		Cash:         l.cash,
		Positions:    positions,
		Transactions: transactions,
		TotalValue:   total,
	}
}

// RefreshPrices applies an independent bounded percentage drift to each
// held position's current price, standing in for a live quote feed.
// Purely synchronous; no internal scheduling.
func (l *Ledger) RefreshPrices() *models.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, pos := range l.positions {
		drift := (l.rng.Float64()*2 - 1) * l.maxDriftPct / 100
		pos.CurrentPrice *= 1 + drift
	}
	return l.snapshotLocked()
}

// Reset atomically replaces the aggregate with its canonical initial
// state: starting cash, no positions, empty transaction log.
func (l *Ledger) Reset() *models.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cash = l.startingCash
	l.positions = make(map[string]*models.Position)
	l.transactions = nil
	l.logger.Info().Float64("cash", l.cash).Msg("ledger reset")
	return l.snapshotLocked()
}
