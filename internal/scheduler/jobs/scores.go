package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/scoring"
	"github.com/tradedeck/backend/internal/scoringconfig"
	"github.com/tradedeck/backend/pkg/logger"
	"github.com/tradedeck/backend/pkg/redis"
)

// ScorePublisher pushes fresh score snapshots to live subscribers. The API
// layer's websocket hub implements it; nil disables streaming.
type ScorePublisher interface {
	PublishScores(record *contracts.ScoreRecord)
}

// ScoreJob recomputes the category scores from the latest market data and
// persists the snapshot.
type ScoreJob struct {
	market    contracts.MarketDataRepository
	scores    contracts.ScoreRepository
	scorer    *scoring.Scorer
	cfg       *scoringconfig.Config
	cache     *redis.Cache
	publisher ScorePublisher
	logger    *logger.Logger
}

// NewScoreJob creates the scoring job. publisher may be nil.
func NewScoreJob(
	market contracts.MarketDataRepository,
	scores contracts.ScoreRepository,
	scorer *scoring.Scorer,
	cfg *scoringconfig.Config,
	cache *redis.Cache,
	publisher ScorePublisher,
	log *logger.Logger,
) *ScoreJob {
	return &ScoreJob{
		market:    market,
		scores:    scores,
		scorer:    scorer,
		cfg:       cfg,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

// Name returns the job name.
func (j *ScoreJob) Name() string {
	return "scores"
}

// Schedule returns the cron schedule (hourly, 2 minutes past to run after
// the market data poll).
func (j *ScoreJob) Schedule() string {
	return "0 2 * * * *"
}

// Run computes one score snapshot.
func (j *ScoreJob) Run(ctx context.Context) error {
	record, err := j.Compute(ctx)
	if err != nil {
		return err
	}

	saved, err := j.scores.Save(ctx, record)
	if err != nil {
		return fmt.Errorf("save score snapshot: %w", err)
	}

	if err := j.cache.Set(ctx, redis.LatestScoresKey(), saved, redis.TTLMedium); err != nil {
		j.logger.WithError(err).Warn("Score cache write failed")
	}

	if j.publisher != nil {
		j.publisher.PublishScores(saved)
	}

	j.logger.WithFields(map[string]interface{}{
		"regime": saved.Regime,
		"scores": len(saved.Scores),
	}).Info("Score snapshot saved")

	return nil
}

// Compute builds a score snapshot from the latest market data without
// persisting it. Shared by the scheduled run and the CLI's one-shot score
// command.
func (j *ScoreJob) Compute(ctx context.Context) (*contracts.ScoreRecord, error) {
	latest, err := j.market.LatestValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest market data: %w", err)
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("no market data available to score")
	}

	data := make(map[string]float64, len(latest))
	for name, v := range latest {
		data[name] = v.Value
	}

	regime := scoring.DetectRegime(data)

	snapshot := make(contracts.ScoreSnapshot)
	for category, indicators := range j.cfg.Categories {
		result := j.scorer.GenerateScores(data, indicators, regime)
		if result.TotalScore == nil {
			j.logger.WithField("category", category).Warn("Category score not computable, excluded from snapshot")
			continue
		}
		snapshot[category+"_score"] = *result.TotalScore
	}

	if len(snapshot) == 0 {
		return nil, fmt.Errorf("no category produced a score")
	}

	return &contracts.ScoreRecord{
		TakenAt: time.Now().UTC(),
		Regime:  regime,
		Scores:  snapshot,
	}, nil
}
