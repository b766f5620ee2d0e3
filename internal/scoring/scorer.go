// Package scoring maps raw indicator values to discrete 25/50/75/100 scores
// and aggregates them into per-category averages (macro_score,
// technical_score, market_score, sentiment_score).
package scoring

import (
	"math"
	"strings"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

// Discrete score levels produced by the threshold scorer.
const (
	ScoreWeak      = 25.0
	ScoreNeutral   = 50.0
	ScoreGood      = 75.0
	ScoreExcellent = 100.0
)

// defaultThresholds is substituted when a caller supplies a malformed
// thresholds list at runtime. Degrading precision beats dropping the whole
// scoring run; the substitution is always logged. Config loaded from YAML is
// validated strictly at load time instead (see scoringconfig).
var defaultThresholds = []float64{0, 50, 100}

// Scorer computes indicator and category scores. The optional RegimeWeighter
// reweights per-indicator contributions before aggregation; nil means no
// reweighting.
type Scorer struct {
	logger *logger.Logger
	regime RegimeWeighter
}

// NewScorer creates a new scorer. regime may be nil.
func NewScorer(log *logger.Logger, regime RegimeWeighter) *Scorer {
	return &Scorer{
		logger: log,
		regime: regime,
	}
}

// CalculateScore maps a raw indicator value onto the discrete score scale
// using three ascending threshold bands.
//
// A nil value means insufficient data and yields a nil score: a score is
// never fabricated. A non-finite value is logged and also yields nil.
func (s *Scorer) CalculateScore(value *float64, thresholds []float64, positive bool) *float64 {
	if value == nil {
		return nil
	}

	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.logger.WithField("value", v).Warn("Ignoring non-numeric indicator value")
		return nil
	}

	if len(thresholds) != 3 {
		s.logger.WithFields(map[string]interface{}{
			"thresholds": thresholds,
			"default":    defaultThresholds,
		}).Warn("Malformed thresholds, substituting defaults")
		thresholds = defaultThresholds
	}

	var score float64
	if positive {
		// Higher is better
		switch {
		case v > thresholds[2]:
			score = ScoreExcellent
		case v > thresholds[1]:
			score = ScoreGood
		case v > thresholds[0]:
			score = ScoreNeutral
		default:
			score = ScoreWeak
		}
	} else {
		// Lower is better: mirrored comparisons
		switch {
		case v < thresholds[0]:
			score = ScoreExcellent
		case v < thresholds[1]:
			score = ScoreGood
		case v < thresholds[2]:
			score = ScoreNeutral
		default:
			score = ScoreWeak
		}
	}

	return &score
}

// GenerateScores scores every configured indicator against the supplied data
// and aggregates the results. Indicator names are matched against the data
// keys case-insensitively. TotalScore is the (regime-weighted) mean of all
// non-nil scores, rounded to 2 decimals, or nil when none were computable.
//
// regimeLabel is only consulted when the scorer carries a RegimeWeighter.
func (s *Scorer) GenerateScores(data map[string]float64, config contracts.IndicatorSet, regimeLabel string) *contracts.ScoreSet {
	// Case-insensitive value lookup
	values := make(map[string]float64, len(data))
	for k, v := range data {
		values[strings.ToLower(k)] = v
	}

	result := &contracts.ScoreSet{
		Scores: make(map[string]contracts.IndicatorScore, len(config)),
	}

	var weightedSum, weightSum float64
	scored := 0

	for name, conf := range config {
		var value *float64
		if v, ok := values[strings.ToLower(name)]; ok {
			value = &v
		}

		score := s.CalculateScore(value, conf.Thresholds, conf.Positive)

		result.Scores[name] = contracts.IndicatorScore{
			Value:      value,
			Score:      score,
			Thresholds: conf.Thresholds,
			Positive:   conf.Positive,
		}

		if score == nil {
			continue
		}

		weight := conf.Weight
		if weight <= 0 {
			weight = 1.0
		}
		if s.regime != nil {
			weight *= clampRegimeWeight(s.regime.Multiplier(regimeLabel, name))
		}

		weightedSum += *score * weight
		weightSum += weight
		scored++
	}

	if scored > 0 && weightSum > 0 {
		total := round2(weightedSum / weightSum)
		result.TotalScore = &total
	}

	s.logger.WithFields(map[string]interface{}{
		"configured": len(config),
		"scored":     scored,
		"regime":     regimeLabel,
	}).Debug("Generated indicator scores")

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
