package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradedeck/backend/internal/contracts"
)

// ScoreRepository implements contracts.ScoreRepository.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Save persists a category-score snapshot.
func (r *ScoreRepository) Save(ctx context.Context, record *contracts.ScoreRecord) (*contracts.ScoreRecord, error) {
	scoresJSON, err := json.Marshal(record.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scores: %w", err)
	}

	query := `
		INSERT INTO score_snapshots (taken_at, regime, scores)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	saved := *record
	err = r.pool.QueryRow(ctx, query, record.TakenAt, record.Regime, scoresJSON).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save score snapshot: %w", err)
	}

	return &saved, nil
}

// Latest retrieves the most recent score snapshot.
func (r *ScoreRepository) Latest(ctx context.Context) (*contracts.ScoreRecord, error) {
	query := `
		SELECT id, taken_at, regime, scores
		FROM score_snapshots
		ORDER BY taken_at DESC
		LIMIT 1
	`
	return scanScoreRecord(r.pool.QueryRow(ctx, query))
}

// History retrieves snapshots within [from, to], newest first.
func (r *ScoreRepository) History(ctx context.Context, from, to time.Time, limit int) ([]*contracts.ScoreRecord, error) {
	query := `
		SELECT id, taken_at, regime, scores
		FROM score_snapshots
		WHERE taken_at BETWEEN $1 AND $2
		ORDER BY taken_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	var records []*contracts.ScoreRecord
	for rows.Next() {
		record, err := scanScoreRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes snapshots taken before cutoff and returns the
// number of rows deleted.
func (r *ScoreRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM score_snapshots WHERE taken_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old score snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanScoreRecord(row pgx.Row) (*contracts.ScoreRecord, error) {
	var record contracts.ScoreRecord
	var scoresJSON []byte

	err := row.Scan(&record.ID, &record.TakenAt, &record.Regime, &scoresJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan score snapshot: %w", err)
	}

	if err := json.Unmarshal(scoresJSON, &record.Scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}

	return &record, nil
}
