// Package store implements the contracts repository interfaces on
// PostgreSQL. Raw SQL via pgx, one repository per aggregate; JSONB for the
// nested curve/condition/score documents.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/curve"
)

// ErrNotFound is returned when a requested row does not exist. The API layer
// maps it to a 404.
var ErrNotFound = errors.New("not found")

// ValidationError reports a defective setup definition at save time. The
// API layer maps it to a 400.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// SetupRepository implements contracts.SetupRepository.
type SetupRepository struct {
	pool *pgxpool.Pool
}

// NewSetupRepository creates a new setup repository.
func NewSetupRepository(pool *pgxpool.Pool) *SetupRepository {
	return &SetupRepository{pool: pool}
}

// ValidateSetup is the configuration-save gate: a setup that passes here is
// trusted by the decision engine without re-validation at decision time.
func ValidateSetup(setup *contracts.Setup) error {
	if setup.Name == "" {
		return ValidationError{Message: "setup name is required"}
	}
	if setup.BaseAmount <= 0 {
		return ValidationError{Message: fmt.Sprintf("base_amount must be a positive number, got %v", setup.BaseAmount)}
	}

	switch setup.ExecutionMode {
	case contracts.ExecutionModeFixed:
		// Curve optional and unused
	case contracts.ExecutionModeCustom:
		if err := curve.ValidateDecisionCurve(setup.DecisionCurve); err != nil {
			return err
		}
	default:
		return ValidationError{Message: fmt.Sprintf("unknown execution_mode %q", setup.ExecutionMode)}
	}

	return nil
}

// Create validates and persists a new setup.
func (r *SetupRepository) Create(ctx context.Context, setup *contracts.Setup) (*contracts.Setup, error) {
	if err := ValidateSetup(setup); err != nil {
		return nil, err
	}

	curveJSON, pausesJSON, err := marshalSetupFields(setup)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO setups (name, execution_mode, base_amount, decision_curve, pause_conditions, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	created := *setup
	err = r.pool.QueryRow(ctx, query,
		setup.Name, setup.ExecutionMode, setup.BaseAmount, curveJSON, pausesJSON, setup.Active,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create setup: %w", err)
	}

	return &created, nil
}

// Update validates and persists changes to an existing setup.
func (r *SetupRepository) Update(ctx context.Context, setup *contracts.Setup) (*contracts.Setup, error) {
	if err := ValidateSetup(setup); err != nil {
		return nil, err
	}

	curveJSON, pausesJSON, err := marshalSetupFields(setup)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE setups
		SET name = $2, execution_mode = $3, base_amount = $4,
		    decision_curve = $5, pause_conditions = $6, active = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	updated := *setup
	err = r.pool.QueryRow(ctx, query,
		setup.ID, setup.Name, setup.ExecutionMode, setup.BaseAmount, curveJSON, pausesJSON, setup.Active,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update setup: %w", err)
	}

	return &updated, nil
}

// Delete removes a setup by id.
func (r *SetupRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM setups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete setup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const setupColumns = `id, name, execution_mode, base_amount, decision_curve, pause_conditions, active, created_at, updated_at`

// GetByID retrieves a setup by id.
func (r *SetupRepository) GetByID(ctx context.Context, id int64) (*contracts.Setup, error) {
	query := `SELECT ` + setupColumns + ` FROM setups WHERE id = $1`
	return scanSetup(r.pool.QueryRow(ctx, query, id))
}

// GetByName retrieves a setup by its unique name.
func (r *SetupRepository) GetByName(ctx context.Context, name string) (*contracts.Setup, error) {
	query := `SELECT ` + setupColumns + ` FROM setups WHERE name = $1`
	return scanSetup(r.pool.QueryRow(ctx, query, name))
}

// List retrieves setups, optionally restricted to active ones.
func (r *SetupRepository) List(ctx context.Context, activeOnly bool) ([]*contracts.Setup, error) {
	query := `SELECT ` + setupColumns + ` FROM setups`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query setups: %w", err)
	}
	defer rows.Close()

	var setups []*contracts.Setup
	for rows.Next() {
		setup, err := scanSetup(rows)
		if err != nil {
			return nil, err
		}
		setups = append(setups, setup)
	}
	return setups, rows.Err()
}

func marshalSetupFields(setup *contracts.Setup) (curveJSON, pausesJSON []byte, err error) {
	if setup.DecisionCurve != nil {
		curveJSON, err = json.Marshal(setup.DecisionCurve)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal decision_curve: %w", err)
		}
	}
	if len(setup.PauseConditions) > 0 {
		pausesJSON, err = json.Marshal(setup.PauseConditions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal pause_conditions: %w", err)
		}
	}
	return curveJSON, pausesJSON, nil
}

func scanSetup(row pgx.Row) (*contracts.Setup, error) {
	var setup contracts.Setup
	var curveJSON, pausesJSON []byte

	err := row.Scan(
		&setup.ID, &setup.Name, &setup.ExecutionMode, &setup.BaseAmount,
		&curveJSON, &pausesJSON, &setup.Active, &setup.CreatedAt, &setup.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan setup: %w", err)
	}

	if len(curveJSON) > 0 {
		if err := json.Unmarshal(curveJSON, &setup.DecisionCurve); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decision_curve: %w", err)
		}
	}
	if len(pausesJSON) > 0 {
		if err := json.Unmarshal(pausesJSON, &setup.PauseConditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pause_conditions: %w", err)
		}
	}

	return &setup, nil
}
