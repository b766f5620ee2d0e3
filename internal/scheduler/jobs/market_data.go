// Package jobs holds the scheduled job implementations: market data
// collection, score generation, report generation and retention cleanup.
package jobs

import (
	"context"
	"fmt"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/external/coingecko"
	"github.com/tradedeck/backend/internal/external/feargreed"
	"github.com/tradedeck/backend/internal/external/yahoo"
	"github.com/tradedeck/backend/pkg/logger"
	"github.com/tradedeck/backend/pkg/redis"
)

// MarketDataJob polls the external indicator sources and persists fresh
// observations. Each source failing is tolerated; the job fails only when
// nothing at all could be fetched.
type MarketDataJob struct {
	coinGecko *coingecko.Client
	fearGreed *feargreed.Client
	yahoo     *yahoo.Client
	repo      contracts.MarketDataRepository
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewMarketDataJob creates the market data collection job.
func NewMarketDataJob(
	cg *coingecko.Client,
	fg *feargreed.Client,
	yh *yahoo.Client,
	repo contracts.MarketDataRepository,
	cache *redis.Cache,
	log *logger.Logger,
) *MarketDataJob {
	return &MarketDataJob{
		coinGecko: cg,
		fearGreed: fg,
		yahoo:     yh,
		repo:      repo,
		cache:     cache,
		logger:    log,
	}
}

// Name returns the job name.
func (j *MarketDataJob) Name() string {
	return "market_data"
}

// Schedule returns the cron schedule (every 15 minutes).
func (j *MarketDataJob) Schedule() string {
	return "0 */15 * * * *"
}

// Run fetches from all sources and saves whatever arrived.
func (j *MarketDataJob) Run(ctx context.Context) error {
	var values []contracts.IndicatorValue
	var failures int

	if fetched, err := j.coinGecko.FetchIndicators(ctx); err != nil {
		failures++
		j.logger.WithError(err).Warn("CoinGecko fetch failed")
	} else {
		values = append(values, fetched...)
	}

	if index, err := j.fearGreed.FetchIndex(ctx); err != nil {
		failures++
		j.logger.WithError(err).Warn("Fear & Greed fetch failed")
	} else {
		values = append(values, *index)
	}

	if fetched, err := j.yahoo.FetchIndicators(ctx); err != nil {
		failures++
		j.logger.WithError(err).Warn("Yahoo fetch failed")
	} else {
		values = append(values, fetched...)
	}

	if len(values) == 0 {
		return fmt.Errorf("all %d market data sources failed", failures)
	}

	if err := j.repo.Save(ctx, values); err != nil {
		return fmt.Errorf("save market data: %w", err)
	}

	for _, v := range values {
		if err := j.cache.Set(ctx, redis.IndicatorKey(v.Name), v, redis.TTLShort); err != nil {
			j.logger.WithError(err).WithField("indicator", v.Name).Warn("Cache write failed")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"indicators": len(values),
		"failures":   failures,
	}).Info("Market data collected")

	return nil
}
