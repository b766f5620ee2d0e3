package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradedeck/backend/internal/contracts"
)

// MarketDataRepository implements contracts.MarketDataRepository.
type MarketDataRepository struct {
	pool *pgxpool.Pool
}

// NewMarketDataRepository creates a new market data repository.
func NewMarketDataRepository(pool *pgxpool.Pool) *MarketDataRepository {
	return &MarketDataRepository{pool: pool}
}

// Save persists a batch of indicator observations in one transaction.
func (r *MarketDataRepository) Save(ctx context.Context, values []contracts.IndicatorValue) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO market_data (name, value, source, observed_at)
		VALUES ($1, $2, $3, $4)
	`

	for _, v := range values {
		if _, err := tx.Exec(ctx, query, v.Name, v.Value, v.Source, v.ObservedAt); err != nil {
			return fmt.Errorf("failed to save indicator %s: %w", v.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// LatestValues retrieves the most recent observation for every indicator.
func (r *MarketDataRepository) LatestValues(ctx context.Context) (map[string]contracts.IndicatorValue, error) {
	query := `
		SELECT DISTINCT ON (name) id, name, value, source, observed_at
		FROM market_data
		ORDER BY name, observed_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest market data: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]contracts.IndicatorValue)
	for rows.Next() {
		var v contracts.IndicatorValue
		if err := rows.Scan(&v.ID, &v.Name, &v.Value, &v.Source, &v.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		latest[v.Name] = v
	}
	return latest, rows.Err()
}

// History retrieves observations for one indicator within [from, to],
// oldest first.
func (r *MarketDataRepository) History(ctx context.Context, name string, from, to time.Time) ([]contracts.IndicatorValue, error) {
	query := `
		SELECT id, name, value, source, observed_at
		FROM market_data
		WHERE name = $1 AND observed_at BETWEEN $2 AND $3
		ORDER BY observed_at ASC
	`

	rows, err := r.pool.Query(ctx, query, name, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query market data history: %w", err)
	}
	defer rows.Close()

	var values []contracts.IndicatorValue
	for rows.Next() {
		var v contracts.IndicatorValue
		if err := rows.Scan(&v.ID, &v.Name, &v.Value, &v.Source, &v.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DeleteOlderThan removes observations before cutoff and returns the number
// of rows deleted.
func (r *MarketDataRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM market_data WHERE observed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old market data: %w", err)
	}
	return tag.RowsAffected(), nil
}
