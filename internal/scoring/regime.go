package scoring

import "strings"

// Regime weight multipliers are clamped to this range before they are
// applied, so a misconfigured regime map cannot zero out or dominate a
// category average.
const (
	MinRegimeWeight = 0.25
	MaxRegimeWeight = 2.5
)

// RegimeWeighter adjusts per-indicator weights based on a detected market
// regime. Implementations must treat unknown regimes and unknown keys as
// neutral (multiplier 1). Injected into the Scorer as an optional
// capability; a nil weighter disables reweighting entirely.
type RegimeWeighter interface {
	Multiplier(regime, key string) float64
}

// StaticRegimeWeights is a fixed regime -> key -> multiplier map.
type StaticRegimeWeights map[string]map[string]float64

// Multiplier implements RegimeWeighter. Unknown regimes fall back to the
// "neutral" entry; unknown keys return 1.
func (w StaticRegimeWeights) Multiplier(regime, key string) float64 {
	multipliers, ok := w[normalizeRegimeKey(regime)]
	if !ok {
		multipliers = w["neutral"]
	}
	if len(multipliers) == 0 {
		return 1.0
	}

	m, ok := multipliers[normalizeRegimeKey(key)]
	if !ok || m <= 0 {
		return 1.0
	}
	return m
}

// DefaultRegimeWeights returns the built-in regime map. Risk-off regimes
// shift weight from momentum/sentiment toward macro and structure; risk-on
// does the opposite.
func DefaultRegimeWeights() StaticRegimeWeights {
	return StaticRegimeWeights{
		"risk_off": {
			"market_score":     0.8,
			"technical_score":  1.2,
			"macro_score":      1.3,
			"sentiment_score":  0.7,
			"volatility_score": 1.2,
		},
		"risk_on": {
			"market_score":     1.3,
			"technical_score":  1.1,
			"macro_score":      0.9,
			"sentiment_score":  1.2,
			"volatility_score": 0.8,
		},
		"range": {
			"market_score":     0.9,
			"technical_score":  1.3,
			"macro_score":      1.0,
			"sentiment_score":  0.9,
			"volatility_score": 1.1,
		},
		"distribution": {
			"market_score":     0.8,
			"technical_score":  1.2,
			"macro_score":      1.25,
			"sentiment_score":  0.8,
			"volatility_score": 1.15,
		},
		"accumulation": {
			"market_score":     1.15,
			"technical_score":  1.2,
			"macro_score":      1.0,
			"sentiment_score":  0.95,
			"volatility_score": 1.0,
		},
		// Unknown / default
		"neutral": {},
	}
}

// DetectRegime derives a coarse market regime label from raw indicator
// values. It only consumes what the collectors already fetch: sentiment
// extremes dominate, 24h momentum breaks the tie. Missing inputs fall back
// to "neutral" so scoring never blocks on regime detection.
func DetectRegime(values map[string]float64) string {
	fearGreed, hasFG := values["fear_greed_index"]
	change, hasChange := values["btc_change_24h_pct"]

	switch {
	case hasFG && fearGreed <= 20:
		return "risk_off"
	case hasFG && fearGreed >= 75:
		return "risk_on"
	case hasChange && change <= -5:
		return "distribution"
	case hasChange && change >= 5:
		return "accumulation"
	case hasFG || hasChange:
		return "range"
	default:
		return "neutral"
	}
}

func normalizeRegimeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), " ", "_")
}

func clampRegimeWeight(w float64) float64 {
	if w < MinRegimeWeight {
		return MinRegimeWeight
	}
	if w > MaxRegimeWeight {
		return MaxRegimeWeight
	}
	return w
}
