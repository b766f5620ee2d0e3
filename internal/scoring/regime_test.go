package scoring

import "testing"

func TestStaticRegimeWeightsMultiplier(t *testing.T) {
	weights := DefaultRegimeWeights()

	tests := []struct {
		name   string
		regime string
		key    string
		want   float64
	}{
		{"known regime and key", "risk_off", "macro_score", 1.3},
		{"normalized regime label", " Risk Off ", "macro_score", 1.3},
		{"normalized key", "risk_off", "Macro Score", 1.3},
		{"unknown key is neutral", "risk_off", "liquidity_score", 1.0},
		{"unknown regime is neutral", "melt_up", "macro_score", 1.0},
		{"empty regime is neutral", "", "macro_score", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weights.Multiplier(tt.regime, tt.key); got != tt.want {
				t.Errorf("Multiplier(%q, %q) = %v, want %v", tt.regime, tt.key, got, tt.want)
			}
		})
	}
}

func TestStaticRegimeWeightsIgnoresNonPositive(t *testing.T) {
	weights := StaticRegimeWeights{
		"risk_on": {"market_score": -2.0},
	}

	if got := weights.Multiplier("risk_on", "market_score"); got != 1.0 {
		t.Errorf("non-positive multiplier should fall back to 1.0, got %v", got)
	}
}

func TestDetectRegime(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		want   string
	}{
		{"extreme fear", map[string]float64{"fear_greed_index": 12}, "risk_off"},
		{"extreme greed", map[string]float64{"fear_greed_index": 80}, "risk_on"},
		{"sharp drop", map[string]float64{"fear_greed_index": 50, "btc_change_24h_pct": -7}, "distribution"},
		{"sharp rally", map[string]float64{"fear_greed_index": 50, "btc_change_24h_pct": 6}, "accumulation"},
		{"quiet midrange", map[string]float64{"fear_greed_index": 50, "btc_change_24h_pct": 0.5}, "range"},
		{"no inputs", map[string]float64{}, "neutral"},
		{"fear wins over momentum", map[string]float64{"fear_greed_index": 10, "btc_change_24h_pct": 6}, "risk_off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectRegime(tt.values); got != tt.want {
				t.Errorf("DetectRegime(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestClampRegimeWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.1, MinRegimeWeight},
		{0.25, 0.25},
		{1.0, 1.0},
		{2.5, 2.5},
		{5.0, MaxRegimeWeight},
	}

	for _, tt := range tests {
		if got := clampRegimeWeight(tt.in); got != tt.want {
			t.Errorf("clampRegimeWeight(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
