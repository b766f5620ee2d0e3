package contracts

import "time"

// DecisionRecord is a persisted sizing decision, including the inputs that
// produced it so it can be replayed and audited.
type DecisionRecord struct {
	ID         int64         `json:"id,omitempty"`
	SetupID    int64         `json:"setup_id"`
	SetupName  string        `json:"setup_name"`
	Scores     ScoreSnapshot `json:"scores"`
	Multiplier float64       `json:"multiplier"`
	Amount     float64       `json:"amount"`
	Paused     bool          `json:"paused"`
	PausedBy   string        `json:"paused_by,omitempty"` // score key that triggered the pause
	DecidedAt  time.Time     `json:"decided_at"`
}
