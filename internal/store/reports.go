package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradedeck/backend/internal/contracts"
)

// ReportRepository implements contracts.ReportRepository.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save persists a generated report. One report per (kind, period): saving
// again for the same period replaces the content.
func (r *ReportRepository) Save(ctx context.Context, report *contracts.Report) (*contracts.Report, error) {
	if !contracts.ValidReportKind(report.Kind) {
		return nil, fmt.Errorf("unknown report kind %q", report.Kind)
	}

	query := `
		INSERT INTO reports (kind, period, content, model, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kind, period) DO UPDATE SET
			content = EXCLUDED.content,
			model = EXCLUDED.model,
			created_at = EXCLUDED.created_at
		RETURNING id
	`

	saved := *report
	err := r.pool.QueryRow(ctx, query,
		report.Kind, report.Period, report.Content, report.Model, report.CreatedAt,
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	return &saved, nil
}

const reportColumns = `id, kind, period, content, model, created_at`

// Latest retrieves the most recent report of the given kind.
func (r *ReportRepository) Latest(ctx context.Context, kind contracts.ReportKind) (*contracts.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanReport(r.pool.QueryRow(ctx, query, kind))
}

// GetByPeriod retrieves the report for a specific period label
// (e.g. "2026-08-26" for daily, "2026-W34" for weekly).
func (r *ReportRepository) GetByPeriod(ctx context.Context, kind contracts.ReportKind, period string) (*contracts.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE kind = $1 AND period = $2
	`
	return scanReport(r.pool.QueryRow(ctx, query, kind, period))
}

// List retrieves the most recent reports of the given kind, newest first.
func (r *ReportRepository) List(ctx context.Context, kind contracts.ReportKind, limit int) ([]*contracts.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*contracts.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanReport(row pgx.Row) (*contracts.Report, error) {
	var report contracts.Report
	err := row.Scan(&report.ID, &report.Kind, &report.Period, &report.Content, &report.Model, &report.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	return &report, nil
}
