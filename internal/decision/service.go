package decision

import (
	"context"
	"sort"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

// Service wraps the decision engine with the pause-condition override and
// decision logging. Pause conditions live here rather than in DecideAmount
// so the engine stays a pure sizing function.
type Service struct {
	logger    *logger.Logger
	decisions contracts.DecisionRepository // optional; nil disables persistence
}

// NewService creates a decision service. decisions may be nil, in which case
// computed decisions are returned but not persisted.
func NewService(log *logger.Logger, decisions contracts.DecisionRepository) *Service {
	return &Service{
		logger:    log,
		decisions: decisions,
	}
}

// Decide sizes a position for the setup, applies pause conditions and
// persists the resulting decision record when a repository is configured.
func (s *Service) Decide(ctx context.Context, setup *contracts.Setup, scores contracts.ScoreSnapshot) (*contracts.DecisionRecord, error) {
	record, err := s.compute(setup, scores)
	if err != nil {
		return nil, err
	}

	if s.decisions != nil {
		saved, err := s.decisions.Save(ctx, record)
		if err != nil {
			// The decision itself is valid; losing the audit row is not
			// a reason to withhold it
			s.logger.WithError(err).Error("Failed to persist decision record")
		} else {
			record = saved
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"setup":      setup.Name,
		"mode":       setup.ExecutionMode,
		"multiplier": record.Multiplier,
		"amount":     record.Amount,
		"paused":     record.Paused,
	}).Info("Decision computed")

	return record, nil
}

// Preview computes a decision without writing it to the decision log. Used
// by the API's preview endpoint to let operators test a setup risk-free.
func (s *Service) Preview(setup *contracts.Setup, scores contracts.ScoreSnapshot) (*contracts.DecisionRecord, error) {
	return s.compute(setup, scores)
}

func (s *Service) compute(setup *contracts.Setup, scores contracts.ScoreSnapshot) (*contracts.DecisionRecord, error) {
	amount, multiplier, err := decide(setup, scores)
	if err != nil {
		return nil, err
	}

	record := &contracts.DecisionRecord{
		SetupID:    setup.ID,
		SetupName:  setup.Name,
		Scores:     scores,
		Multiplier: multiplier,
		Amount:     amount,
		DecidedAt:  time.Now().UTC(),
	}

	if key, paused := checkPauseConditions(setup.PauseConditions, scores); paused {
		record.Paused = true
		record.PausedBy = key
		record.Amount = 0.0

		s.logger.WithFields(map[string]interface{}{
			"setup":     setup.Name,
			"paused_by": key,
			"score":     scores[key],
		}).Warn("Pause condition triggered, amount forced to 0")
	}

	return record, nil
}

// checkPauseConditions returns the first triggering score key in sorted key
// order, so repeated calls with identical inputs report the same trigger.
// Conditions referencing a missing score key never trigger.
func checkPauseConditions(conditions map[string]contracts.PauseCondition, scores contracts.ScoreSnapshot) (string, bool) {
	if len(conditions) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(conditions))
	for key := range conditions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := scores[key]
		if !ok {
			continue
		}

		cond := conditions[key]
		if cond.GT != nil && value > *cond.GT {
			return key, true
		}
		if cond.LT != nil && value < *cond.LT {
			return key, true
		}
	}

	return "", false
}
