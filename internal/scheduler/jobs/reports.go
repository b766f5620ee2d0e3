package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradedeck/backend/internal/ai"
	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/store"
	"github.com/tradedeck/backend/pkg/logger"
)

// ReportJob generates one narrative kind on its own schedule.
type ReportJob struct {
	kind      contracts.ReportKind
	schedule  string
	generator *ai.ReportGenerator
	scores    contracts.ScoreRepository
	market    contracts.MarketDataRepository
	decisions contracts.DecisionRepository
	logger    *logger.Logger
}

func newReportJob(
	kind contracts.ReportKind,
	schedule string,
	generator *ai.ReportGenerator,
	scores contracts.ScoreRepository,
	market contracts.MarketDataRepository,
	decisions contracts.DecisionRepository,
	log *logger.Logger,
) *ReportJob {
	return &ReportJob{
		kind:      kind,
		schedule:  schedule,
		generator: generator,
		scores:    scores,
		market:    market,
		decisions: decisions,
		logger:    log,
	}
}

// NewDailyReportJob generates the daily report at 06:10 UTC.
func NewDailyReportJob(g *ai.ReportGenerator, s contracts.ScoreRepository, m contracts.MarketDataRepository, d contracts.DecisionRepository, log *logger.Logger) *ReportJob {
	return newReportJob(contracts.ReportDaily, "0 10 6 * * *", g, s, m, d, log)
}

// NewWeeklyReportJob generates the weekly review on Mondays at 06:30 UTC.
func NewWeeklyReportJob(g *ai.ReportGenerator, s contracts.ScoreRepository, m contracts.MarketDataRepository, d contracts.DecisionRepository, log *logger.Logger) *ReportJob {
	return newReportJob(contracts.ReportWeekly, "0 30 6 * * 1", g, s, m, d, log)
}

// NewMonthlyReportJob generates the monthly review on the 1st at 07:00 UTC.
func NewMonthlyReportJob(g *ai.ReportGenerator, s contracts.ScoreRepository, m contracts.MarketDataRepository, d contracts.DecisionRepository, log *logger.Logger) *ReportJob {
	return newReportJob(contracts.ReportMonthly, "0 0 7 1 * *", g, s, m, d, log)
}

// Name returns the job name, e.g. "report_daily".
func (j *ReportJob) Name() string {
	return "report_" + string(j.kind)
}

// Schedule returns the cron schedule.
func (j *ReportJob) Schedule() string {
	return j.schedule
}

// Run assembles the inputs and generates the narrative.
func (j *ReportJob) Run(ctx context.Context) error {
	input, err := j.collectInput(ctx)
	if err != nil {
		return err
	}

	report, err := j.generator.Generate(ctx, j.kind, input)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"kind":   j.kind,
		"period": report.Period,
	}).Info("Report job completed")

	return nil
}

func (j *ReportJob) collectInput(ctx context.Context) (ai.ReportInput, error) {
	var input ai.ReportInput

	latest, err := j.scores.Latest(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return input, fmt.Errorf("load latest scores: %w", err)
	}
	input.Scores = latest // nil when nothing scored yet; the prompt says so

	market, err := j.market.LatestValues(ctx)
	if err != nil {
		return input, fmt.Errorf("load latest market data: %w", err)
	}
	input.Market = market

	decisions, err := j.decisions.List(ctx, 0, 20)
	if err != nil {
		return input, fmt.Errorf("load recent decisions: %w", err)
	}
	input.Decisions = decisions

	return input, nil
}
