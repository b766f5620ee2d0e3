package jobs

import (
	"context"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

// MaintenanceJob prunes old market data and score snapshots.
type MaintenanceJob struct {
	market    contracts.MarketDataRepository
	scores    contracts.ScoreRepository
	retention time.Duration
	logger    *logger.Logger
}

// NewMaintenanceJob creates the retention cleanup job. retention <= 0
// defaults to 90 days.
func NewMaintenanceJob(market contracts.MarketDataRepository, scores contracts.ScoreRepository, retention time.Duration, log *logger.Logger) *MaintenanceJob {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	return &MaintenanceJob{
		market:    market,
		scores:    scores,
		retention: retention,
		logger:    log,
	}
}

// Name returns the job name.
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Schedule returns the cron schedule (daily at 03:00 UTC).
func (j *MaintenanceJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run deletes rows older than the retention window.
func (j *MaintenanceJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.retention)

	marketDeleted, err := j.market.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	scoresDeleted, err := j.scores.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"cutoff":        cutoff.Format("2006-01-02"),
		"market_rows":   marketDeleted,
		"snapshot_rows": scoresDeleted,
	}).Info("Maintenance completed")

	return nil
}
