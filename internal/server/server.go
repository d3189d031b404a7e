// Package server exposes the analytics, ledger and dispatch surfaces
// over HTTP with a uniform {status, type, data|error} envelope.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocksim/stocksim/internal/analyze"
	"github.com/stocksim/stocksim/internal/dispatch"
	"github.com/stocksim/stocksim/internal/ledger"
	"github.com/stocksim/stocksim/models"
)

// Server holds the gin engine and the components its handlers use.
type Server struct {
	engine     *gin.Engine
	dispatcher *dispatch.Dispatcher
	ledger     *ledger.Ledger
	provider   models.SeriesProvider
	logger     zerolog.Logger
}

// New builds the router. requestsPerSec bounds the global request rate.
func New(dispatcher *dispatch.Dispatcher, led *ledger.Ledger, provider models.SeriesProvider, requestsPerSec int) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		dispatcher: dispatcher,
		ledger:     led,
		provider:   provider,
		logger:     log.With().Str("component", "http").Logger(),
	}

	s.engine.Use(gin.Recovery(), requestLogger(s.logger), rateLimiter(requestsPerSec))

	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/analyze/:symbol", s.handleAnalyze)
	api.GET("/portfolio", s.handlePortfolio)
	api.POST("/orders", s.handleOrder)
	api.POST("/portfolio/refresh", s.handleRefresh)
	api.POST("/portfolio/reset", s.handleReset)
	api.GET("/performance/:period", s.handlePerformance)
	api.POST("/dispatch", s.handleDispatch)

	return s
}

// Handler returns the http.Handler for serving.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": models.StatusOK})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	symbol := c.Param("symbol")
	timeframe := c.DefaultQuery("timeframe", "1m")

	series, err := s.provider.GetSeries(c.Request.Context(), symbol, timeframe)
	if err != nil {
		respondError(c, http.StatusBadGateway, models.RequestStockAnalysis, err)
		return
	}
	respondOK(c, models.RequestStockAnalysis, analyze.Analyze(series))
}

func (s *Server) handlePortfolio(c *gin.Context) {
	respondOK(c, models.RequestPortfolio, s.ledger.Snapshot())
}

func (s *Server) handleOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		respondError(c, http.StatusBadRequest, models.RequestTradeExecution, err)
		return
	}

	result, err := s.ledger.ExecuteOrder(c.Request.Context(), &order)
	if err != nil {
		var verr *ledger.ValidationError
		var ferr *ledger.InsufficientFundsError
		var perr *ledger.InsufficientPositionError
		switch {
		case errors.As(err, &verr):
			respondError(c, http.StatusBadRequest, models.RequestTradeExecution, err)
		case errors.As(err, &ferr), errors.As(err, &perr):
			respondError(c, http.StatusUnprocessableEntity, models.RequestTradeExecution, err)
		default:
			s.logger.Error().Err(err).Str("symbol", order.Symbol).Msg("order execution failed")
			respondError(c, http.StatusInternalServerError, models.RequestTradeExecution,
				errors.New("order execution failed"))
		}
		return
	}
	respondOK(c, models.RequestTradeExecution, result)
}

func (s *Server) handleRefresh(c *gin.Context) {
	respondOK(c, models.RequestPortfolio, s.ledger.RefreshPrices())
}

func (s *Server) handleReset(c *gin.Context) {
	respondOK(c, models.RequestPortfolio, s.ledger.Reset())
}

func (s *Server) handlePerformance(c *gin.Context) {
	report, err := s.ledger.AnalyzePerformance(c.Param("period"))
	if err != nil {
		respondError(c, http.StatusBadRequest, models.RequestPortfolio, err)
		return
	}
	respondOK(c, models.RequestPortfolio, report)
}

// handleDispatch is the request-dispatch shim: the envelope carries its
// own status, so transport-level success is always 200 once the payload
// parses.
func (s *Server) handleDispatch(c *gin.Context) {
	var req models.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "", err)
		return
	}
	c.JSON(http.StatusOK, s.dispatcher.Dispatch(c.Request.Context(), &req))
}

func respondOK(c *gin.Context, reqType string, data any) {
	c.JSON(http.StatusOK, models.Response{
		Status: models.StatusOK,
		Type:   reqType,
		Data:   data,
	})
}

func respondError(c *gin.Context, code int, reqType string, err error) {
	c.JSON(code, models.Response{
		Status: models.StatusError,
		Type:   reqType,
		Error:  err.Error(),
	})
}
