package models

import (
	"time"
)

// Trend directions derived from moving-average comparison.
const (
	TrendUp   = "uptrend"
	TrendDown = "downtrend"
)

// MACD proxy signals.
const (
	SignalBullish = "bullish"
	SignalBearish = "bearish"
)

// RSI bands.
const (
	RSIOverbought = "overbought"
	RSIOversold   = "oversold"
	RSINeutral    = "neutral"
)

// Recommended actions.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// Order types.
const (
	OrderMarket = "market"
	OrderLimit  = "limit"
)

// Statuses shared by reports and response envelopes.
const (
	StatusOK               = "ok"
	StatusError            = "error"
	StatusInsufficientData = "insufficient_data"
)

// Order execution outcomes.
const (
	OrderExecuted = "executed"
	OrderPending  = "pending"
)

// PricePoint is a single sample of a price series.
type PricePoint struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// PriceSeries holds a chronologically ascending price/volume/date series
// for one symbol. The three slices are always equal in length.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Prices    []float64 `json:"prices"`
	Volumes   []int64   `json:"volumes"`
	Dates     []string  `json:"dates"`
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int {
	return len(s.Prices)
}

// Last returns the most recent price, or 0 for an empty series.
func (s *PriceSeries) Last() float64 {
	if len(s.Prices) == 0 {
		return 0
	}
	return s.Prices[len(s.Prices)-1]
}

// Recommendation is the actionable part of an analysis report. Reasons
// are appended in scoring order, one per scoring step.
type Recommendation struct {
	Action     string   `json:"action"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// AnalysisReport is the output of analyzing one price series. When the
// series is too short Status is "insufficient_data" and Recommendation
// is nil.
type AnalysisReport struct {
	Status         string          `json:"status"`
	Symbol         string          `json:"symbol"`
	Timeframe      string          `json:"timeframe,omitempty"`
	CurrentPrice   float64         `json:"current_price,omitempty"`
	Trend          string          `json:"trend,omitempty"`
	MACDSignal     string          `json:"macd_signal,omitempty"`
	RSISignal      string          `json:"rsi_signal,omitempty"`
	RSI            float64         `json:"rsi,omitempty"`
	SMA20          float64         `json:"sma20,omitempty"`
	SMA50          float64         `json:"sma50,omitempty"`
	EMA12          float64         `json:"ema12,omitempty"`
	EMA26          float64         `json:"ema26,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Position is an open holding. Quantity is always > 0 while the
// position exists; CostBasis is the weighted-average unit cost.
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentPrice float64 `json:"current_price"`
}

// Transaction is one executed trade. Immutable once appended.
type Transaction struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Portfolio is a computed snapshot of the ledger state. TotalValue is
// cash plus the market value of all positions at their current prices.
type Portfolio struct {
	Cash         float64             `json:"cash"`
	Positions    map[string]Position `json:"positions"`
	Transactions []Transaction       `json:"transactions"`
	TotalValue   float64             `json:"total_value"`
}

// Order is a trade request. LimitPrice is required for limit orders and
// ignored for market orders.
type Order struct {
	Symbol     string  `json:"symbol" binding:"required"`
	Action     string  `json:"action" binding:"required,oneof=buy sell"`
	Type       string  `json:"type" binding:"required,oneof=market limit"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	LimitPrice float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
}

// ExecutionResult is the outcome of submitting an order. Status is
// "executed" or "pending"; Transaction and Portfolio are set only for
// executed orders.
type ExecutionResult struct {
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Portfolio   *Portfolio   `json:"portfolio,omitempty"`
}

// ValuePoint is one sample of a historical portfolio value series.
type ValuePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// PerformanceReport summarizes portfolio returns over a period. Return
// figures are percentages except AbsoluteReturn, which is in account
// currency.
type PerformanceReport struct {
	Period           string       `json:"period"`
	CurrentValue     float64      `json:"current_value"`
	StartValue       float64      `json:"start_value"`
	AbsoluteReturn   float64      `json:"absolute_return"`
	PercentReturn    float64      `json:"percent_return"`
	AnnualizedReturn float64      `json:"annualized_return"`
	Volatility       float64      `json:"volatility"`
	HistoricalValues []ValuePoint `json:"historical_values"`
}

// Dispatch request types.
const (
	RequestStockAnalysis  = "stock_analysis"
	RequestPortfolio      = "portfolio"
	RequestTradeExecution = "trade_execution"
	RequestMarketResearch = "market_research"
)

// Request is the typed envelope handled by the dispatcher.
type Request struct {
	Type       string         `json:"type" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

// Response is the dispatcher's reply envelope. Data is set on success,
// Error on failure.
type Response struct {
	Status string `json:"status"`
	Type   string `json:"type"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewsItem is a generated market news headline.
type NewsItem struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	Symbol      string    `json:"symbol,omitempty"`
	Sentiment   string    `json:"sentiment"`
	PublishedAt time.Time `json:"published_at"`
}

// SectorPerformance is a generated daily sector move.
type SectorPerformance struct {
	Sector        string  `json:"sector"`
	ChangePercent float64 `json:"change_percent"`
}

// EconomicIndicator is a generated macro data point.
type EconomicIndicator struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Previous float64 `json:"previous"`
}
