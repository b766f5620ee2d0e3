package commands

import (
	"fmt"
	"time"

	"github.com/tradedeck/backend/internal/ai"
	"github.com/tradedeck/backend/internal/decision"
	"github.com/tradedeck/backend/internal/external/coingecko"
	"github.com/tradedeck/backend/internal/external/feargreed"
	"github.com/tradedeck/backend/internal/external/yahoo"
	"github.com/tradedeck/backend/internal/scheduler"
	"github.com/tradedeck/backend/internal/scheduler/jobs"
	"github.com/tradedeck/backend/internal/scoring"
	"github.com/tradedeck/backend/internal/scoringconfig"
	"github.com/tradedeck/backend/internal/store"
	"github.com/tradedeck/backend/pkg/config"
	"github.com/tradedeck/backend/pkg/database"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
	"github.com/tradedeck/backend/pkg/redis"
)

// appDeps bundles the wired dependencies every command starts from.
type appDeps struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	rdb   *redis.Client
	cache *redis.Cache

	setups    *store.SetupRepository
	scores    *store.ScoreRepository
	market    *store.MarketDataRepository
	reports   *store.ReportRepository
	decisions *store.DecisionRepository

	scoringCfg *scoringconfig.Config
	scorer     *scoring.Scorer
	decider    *decision.Service
	generator  *ai.ReportGenerator

	coinGecko *coingecko.Client
	fearGreed *feargreed.Client
	yahoo     *yahoo.Client
}

// initDeps loads config and wires the full dependency graph. Callers must
// Close() when done.
func initDeps() (*appDeps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (optional, degrades to no-op when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(rdb, "tradedeck")

	// 5. Load the scoring config
	path := cfg.ScoringConfigPath
	if configFile != "" {
		path = configFile
	}
	scoringCfg, raw, err := scoringconfig.Load(path)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	if hash, err := scoringconfig.Hash(scoringCfg); err == nil {
		log.WithFields(map[string]interface{}{
			"path":  path,
			"bytes": len(raw),
			"hash":  hash[:12],
		}).Info("Scoring config loaded")
	}

	// 6. External API clients, each behind its own rate limit
	limiter := redis.NewRateLimiter(rdb, "ratelimit")

	cgHTTP := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithRateLimiter(limiter, redis.CoinGeckoRateLimit).
		WithLocalLimit(0.5, 2)
	fgHTTP := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithRateLimiter(limiter, redis.FearGreedRateLimit).
		WithLocalLimit(0.5, 1)
	yhHTTP := httputil.NewWithTimeout(cfg, log, 20*time.Second).
		WithRateLimiter(limiter, redis.YahooRateLimit).
		WithLocalLimit(0.2, 1)

	coinGeckoClient := coingecko.NewClient(cgHTTP, log, cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey)
	fearGreedClient := feargreed.NewClient(fgHTTP, log, cfg.FearGreed.BaseURL)
	yahooClient := yahoo.NewClient(yhHTTP, log, cfg.Yahoo.BaseURL)

	// 7. Repositories
	setups := store.NewSetupRepository(db.Pool)
	scores := store.NewScoreRepository(db.Pool)
	market := store.NewMarketDataRepository(db.Pool)
	reports := store.NewReportRepository(db.Pool)
	decisions := store.NewDecisionRepository(db.Pool)

	// 8. Scoring and decision services
	scorer := scoring.NewScorer(log, regimeWeights(scoringCfg))
	decider := decision.NewService(log, decisions)

	// 9. AI report generator
	aiHTTP := httputil.NewWithTimeout(cfg, log, cfg.AI.Timeout)
	chat := ai.NewChatClient(aiHTTP, log, cfg.AI)
	generator := ai.NewReportGenerator(chat, chat.Model(), reports, log)

	return &appDeps{
		cfg:        cfg,
		log:        log,
		db:         db,
		rdb:        rdb,
		cache:      cache,
		setups:     setups,
		scores:     scores,
		market:     market,
		reports:    reports,
		decisions:  decisions,
		scoringCfg: scoringCfg,
		scorer:     scorer,
		decider:    decider,
		generator:  generator,
		coinGecko:  coinGeckoClient,
		fearGreed:  fearGreedClient,
		yahoo:      yahooClient,
	}, nil
}

// Close releases held connections.
func (d *appDeps) Close() {
	if d.rdb != nil {
		d.rdb.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}

// newScheduler registers all recurring jobs. publisher may be nil when no
// websocket stream is attached (scheduler daemon, one-shot runs).
func (d *appDeps) newScheduler(publisher jobs.ScorePublisher) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.log)

	jobList := []scheduler.Job{
		jobs.NewMarketDataJob(d.coinGecko, d.fearGreed, d.yahoo, d.market, d.cache, d.log),
		d.newScoreJob(publisher),
		jobs.NewDailyReportJob(d.generator, d.scores, d.market, d.decisions, d.log),
		jobs.NewWeeklyReportJob(d.generator, d.scores, d.market, d.decisions, d.log),
		jobs.NewMonthlyReportJob(d.generator, d.scores, d.market, d.decisions, d.log),
		jobs.NewMaintenanceJob(d.market, d.scores, 0, d.log),
	}

	for _, job := range jobList {
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("register job %s: %w", job.Name(), err)
		}
	}

	return sched, nil
}

func (d *appDeps) newScoreJob(publisher jobs.ScorePublisher) *jobs.ScoreJob {
	return jobs.NewScoreJob(d.market, d.scores, d.scorer, d.scoringCfg, d.cache, publisher, d.log)
}

// regimeWeights merges config-file regime weights over the built-in map, so
// operators only override the regimes they care about.
func regimeWeights(cfg *scoringconfig.Config) scoring.StaticRegimeWeights {
	weights := scoring.DefaultRegimeWeights()
	for regime, multipliers := range cfg.RegimeWeights {
		merged := make(map[string]float64, len(multipliers))
		for key, m := range weights[regime] {
			merged[key] = m
		}
		for key, m := range multipliers {
			merged[key] = m
		}
		weights[regime] = merged
	}
	return weights
}
