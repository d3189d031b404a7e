package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/stocksim/stocksim/models"
)

const defaultMaxElapsed = 30 * time.Second

// RetryingProvider decorates a SeriesProvider with rate limiting and
// exponential-backoff retries, the shape a real upstream feed client
// would need. The mock provider underneath never fails, but swapping in
// a flaky one requires no caller changes.
type RetryingProvider struct {
	inner      models.SeriesProvider
	limiter    *rate.Limiter
	maxElapsed time.Duration
	logger     zerolog.Logger
}

// NewRetryingProvider wraps inner with a per-second rate limit.
func NewRetryingProvider(inner models.SeriesProvider, requestsPerSec int) *RetryingProvider {
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &RetryingProvider{
		inner:      inner,
		limiter:    rate.NewLimiter(rate.Every(time.Second), requestsPerSec),
		maxElapsed: defaultMaxElapsed,
		logger:     log.With().Str("component", "series_provider").Logger(),
	}
}

// GetSeries waits for the limiter, then retries the inner provider with
// exponential backoff until it succeeds or the elapsed budget runs out.
func (p *RetryingProvider) GetSeries(ctx context.Context, symbol, timeframe string) (*models.PriceSeries, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var series *models.PriceSeries
	operation := func() error {
		s, err := p.inner.GetSeries(ctx, symbol, timeframe)
		if err != nil {
			p.logger.Warn().Err(err).Str("symbol", symbol).Msg("series fetch failed, retrying")
			return err
		}
		series = s
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = p.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, fmt.Errorf("after retries: %w", err)
	}
	return series, nil
}
