package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradedeck/backend/internal/contracts"
)

// DecisionRepository implements contracts.DecisionRepository.
type DecisionRepository struct {
	pool *pgxpool.Pool
}

// NewDecisionRepository creates a new decision log repository.
func NewDecisionRepository(pool *pgxpool.Pool) *DecisionRepository {
	return &DecisionRepository{pool: pool}
}

// Save appends a sizing decision to the audit log.
func (r *DecisionRepository) Save(ctx context.Context, record *contracts.DecisionRecord) (*contracts.DecisionRecord, error) {
	scoresJSON, err := json.Marshal(record.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scores: %w", err)
	}

	query := `
		INSERT INTO decisions (setup_id, setup_name, scores, multiplier, amount, paused, paused_by, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	saved := *record
	err = r.pool.QueryRow(ctx, query,
		record.SetupID, record.SetupName, scoresJSON,
		record.Multiplier, record.Amount, record.Paused, record.PausedBy, record.DecidedAt,
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save decision: %w", err)
	}

	return &saved, nil
}

// List retrieves recent decisions, newest first. setupID 0 means all setups.
func (r *DecisionRepository) List(ctx context.Context, setupID int64, limit int) ([]*contracts.DecisionRecord, error) {
	query := `
		SELECT id, setup_id, setup_name, scores, multiplier, amount, paused, paused_by, decided_at
		FROM decisions
		WHERE ($1 = 0 OR setup_id = $1)
		ORDER BY decided_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, setupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var records []*contracts.DecisionRecord
	for rows.Next() {
		var record contracts.DecisionRecord
		var scoresJSON []byte

		err := rows.Scan(
			&record.ID, &record.SetupID, &record.SetupName, &scoresJSON,
			&record.Multiplier, &record.Amount, &record.Paused, &record.PausedBy, &record.DecidedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		if err := json.Unmarshal(scoresJSON, &record.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}

		records = append(records, &record)
	}
	return records, rows.Err()
}
