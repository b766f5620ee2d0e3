package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

// ReportGenerator builds prompts from pipeline data, runs them through the
// Completer and persists the resulting narrative.
type ReportGenerator struct {
	completer Completer
	model     string
	reports   contracts.ReportRepository
	logger    *logger.Logger
}

// NewReportGenerator creates a report generator. reports may be nil, in
// which case generated reports are returned without being persisted.
func NewReportGenerator(completer Completer, model string, reports contracts.ReportRepository, log *logger.Logger) *ReportGenerator {
	return &ReportGenerator{
		completer: completer,
		model:     model,
		reports:   reports,
		logger:    log,
	}
}

// Generate produces and stores one narrative. The period label is derived
// from now when input.Period is empty.
func (g *ReportGenerator) Generate(ctx context.Context, kind contracts.ReportKind, input ReportInput) (*contracts.Report, error) {
	if !contracts.ValidReportKind(kind) {
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}

	if input.Period == "" {
		input.Period = PeriodLabel(kind, time.Now().UTC())
	}

	prompt, err := BuildPrompt(kind, input)
	if err != nil {
		return nil, err
	}

	content, err := g.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s report: %w", kind, err)
	}

	report := &contracts.Report{
		Kind:      kind,
		Period:    input.Period,
		Content:   content,
		Model:     g.model,
		CreatedAt: time.Now().UTC(),
	}

	if g.reports != nil {
		saved, err := g.reports.Save(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("save %s report: %w", kind, err)
		}
		report = saved
	}

	g.logger.WithFields(map[string]interface{}{
		"kind":   kind,
		"period": report.Period,
		"chars":  len(report.Content),
	}).Info("Report generated")

	return report, nil
}

// PeriodLabel formats the canonical period string for a report kind:
// daily "2026-08-26", weekly "2026-W34", monthly "2026-08", quarterly
// "2026-Q3". Setup and strategy narratives are dated like dailies.
func PeriodLabel(kind contracts.ReportKind, at time.Time) string {
	switch kind {
	case contracts.ReportWeekly:
		year, week := at.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case contracts.ReportMonthly:
		return at.Format("2006-01")
	case contracts.ReportQuarterly:
		quarter := (int(at.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", at.Year(), quarter)
	default:
		return at.Format("2006-01-02")
	}
}
