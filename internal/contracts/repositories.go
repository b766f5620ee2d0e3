package contracts

import (
	"context"
	"time"
)

// SetupRepository stores trading setups.
type SetupRepository interface {
	Create(ctx context.Context, setup *Setup) (*Setup, error)
	Update(ctx context.Context, setup *Setup) (*Setup, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Setup, error)
	GetByName(ctx context.Context, name string) (*Setup, error)
	List(ctx context.Context, activeOnly bool) ([]*Setup, error)
}

// ScoreRepository stores category-score snapshots.
type ScoreRepository interface {
	Save(ctx context.Context, record *ScoreRecord) (*ScoreRecord, error)
	Latest(ctx context.Context) (*ScoreRecord, error)
	History(ctx context.Context, from, to time.Time, limit int) ([]*ScoreRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// MarketDataRepository stores raw indicator observations.
type MarketDataRepository interface {
	Save(ctx context.Context, values []IndicatorValue) error
	LatestValues(ctx context.Context) (map[string]IndicatorValue, error)
	History(ctx context.Context, name string, from, to time.Time) ([]IndicatorValue, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReportRepository stores generated narratives.
type ReportRepository interface {
	Save(ctx context.Context, report *Report) (*Report, error)
	Latest(ctx context.Context, kind ReportKind) (*Report, error)
	GetByPeriod(ctx context.Context, kind ReportKind, period string) (*Report, error)
	List(ctx context.Context, kind ReportKind, limit int) ([]*Report, error)
}

// DecisionRepository stores the sizing decision log.
type DecisionRepository interface {
	Save(ctx context.Context, record *DecisionRecord) (*DecisionRecord, error)
	List(ctx context.Context, setupID int64, limit int) ([]*DecisionRecord, error)
}
