package scoring

import (
	"math"
	"testing"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

func newTestScorer() *Scorer {
	return NewScorer(logger.NewNop(), nil)
}

func fp(v float64) *float64 { return &v }

func TestCalculateScorePositive(t *testing.T) {
	s := newTestScorer()
	thresholds := []float64{30, 50, 70}

	tests := []struct {
		value float64
		want  float64
	}{
		{80, ScoreExcellent},
		{70.001, ScoreExcellent},
		{70, ScoreGood},
		{55, ScoreGood},
		{50, ScoreNeutral},
		{31, ScoreNeutral},
		{30, ScoreWeak},
		{-10, ScoreWeak},
	}

	for _, tt := range tests {
		got := s.CalculateScore(fp(tt.value), thresholds, true)
		if got == nil {
			t.Fatalf("CalculateScore(%v) = nil, want %v", tt.value, tt.want)
		}
		if *got != tt.want {
			t.Errorf("CalculateScore(%v) = %v, want %v", tt.value, *got, tt.want)
		}
	}
}

func TestCalculateScoreNegative(t *testing.T) {
	s := newTestScorer()
	// Lower is better, e.g. DXY for crypto
	thresholds := []float64{100, 104, 108}

	tests := []struct {
		value float64
		want  float64
	}{
		{98, ScoreExcellent},
		{100, ScoreGood},
		{103, ScoreGood},
		{104, ScoreNeutral},
		{107.9, ScoreNeutral},
		{108, ScoreWeak},
		{115, ScoreWeak},
	}

	for _, tt := range tests {
		got := s.CalculateScore(fp(tt.value), thresholds, false)
		if got == nil {
			t.Fatalf("CalculateScore(%v) = nil, want %v", tt.value, tt.want)
		}
		if *got != tt.want {
			t.Errorf("CalculateScore(%v) = %v, want %v", tt.value, *got, tt.want)
		}
	}
}

func TestCalculateScoreNeverFabricates(t *testing.T) {
	s := newTestScorer()

	combos := []struct {
		thresholds []float64
		positive   bool
	}{
		{[]float64{0, 50, 100}, true},
		{[]float64{0, 50, 100}, false},
		{[]float64{10, 20}, true},
		{nil, false},
	}

	for _, c := range combos {
		if got := s.CalculateScore(nil, c.thresholds, c.positive); got != nil {
			t.Errorf("CalculateScore(nil, %v, %v) = %v, want nil", c.thresholds, c.positive, *got)
		}
	}

	if got := s.CalculateScore(fp(math.NaN()), []float64{0, 50, 100}, true); got != nil {
		t.Errorf("CalculateScore(NaN) = %v, want nil", *got)
	}
	if got := s.CalculateScore(fp(math.Inf(1)), []float64{0, 50, 100}, true); got != nil {
		t.Errorf("CalculateScore(+Inf) = %v, want nil", *got)
	}
}

func TestCalculateScoreDefaultThresholds(t *testing.T) {
	s := newTestScorer()

	// Malformed thresholds degrade to [0, 50, 100] instead of failing
	got := s.CalculateScore(fp(75), []float64{1, 2}, true)
	if got == nil || *got != ScoreGood {
		t.Fatalf("CalculateScore with bad thresholds = %v, want %v", got, ScoreGood)
	}

	got = s.CalculateScore(fp(150), nil, true)
	if got == nil || *got != ScoreExcellent {
		t.Fatalf("CalculateScore with nil thresholds = %v, want %v", got, ScoreExcellent)
	}
}

func TestGenerateScores(t *testing.T) {
	s := newTestScorer()

	config := contracts.IndicatorSet{
		"fear_greed_index": {Thresholds: []float64{25, 50, 75}, Positive: true},
		"btc_dominance":    {Thresholds: []float64{40, 50, 60}, Positive: false},
		"dxy":              {Thresholds: []float64{100, 104, 108}, Positive: false},
	}

	data := map[string]float64{
		"Fear_Greed_Index": 77,    // > 75 -> 100 (case-insensitive match)
		"btc_dominance":    52.1,  // between 50 and 60 -> 25? lower is better: <40 ->100, <50 ->75, <60 ->50, else 25
		"dxy":              104.3, // < 108 -> 50
	}

	result := s.GenerateScores(data, config, "")

	if len(result.Scores) != 3 {
		t.Fatalf("expected 3 scored indicators, got %d", len(result.Scores))
	}

	wantScores := map[string]float64{
		"fear_greed_index": 100,
		"btc_dominance":    50,
		"dxy":              50,
	}
	for name, want := range wantScores {
		got := result.Scores[name].Score
		if got == nil {
			t.Fatalf("score for %s is nil", name)
		}
		if *got != want {
			t.Errorf("score for %s = %v, want %v", name, *got, want)
		}
	}

	// total = (100 + 50 + 50) / 3 = 66.67
	if result.TotalScore == nil {
		t.Fatal("TotalScore is nil")
	}
	if *result.TotalScore != 66.67 {
		t.Errorf("TotalScore = %v, want 66.67", *result.TotalScore)
	}
}

func TestGenerateScoresExcludesMissing(t *testing.T) {
	s := newTestScorer()

	config := contracts.IndicatorSet{
		"rsi":    {Thresholds: []float64{30, 50, 70}, Positive: true},
		"volume": {Thresholds: []float64{1e9, 5e9, 1e10}, Positive: true},
	}

	// volume missing entirely: excluded from the average, not zeroed
	data := map[string]float64{"rsi": 63}

	result := s.GenerateScores(data, config, "")

	if result.Scores["volume"].Score != nil {
		t.Error("missing indicator should have nil score")
	}
	if result.Scores["volume"].Value != nil {
		t.Error("missing indicator should have nil value")
	}

	if result.TotalScore == nil || *result.TotalScore != 75 {
		t.Errorf("TotalScore = %v, want 75 (mean of the single computable score)", result.TotalScore)
	}
}

func TestGenerateScoresAllMissing(t *testing.T) {
	s := newTestScorer()

	config := contracts.IndicatorSet{
		"rsi": {Thresholds: []float64{30, 50, 70}, Positive: true},
	}

	result := s.GenerateScores(map[string]float64{}, config, "")

	if result.TotalScore != nil {
		t.Errorf("TotalScore = %v, want nil when nothing was computable", *result.TotalScore)
	}
}

func TestGenerateScoresWithRegimeWeights(t *testing.T) {
	weights := StaticRegimeWeights{
		"risk_off": {
			"macro_score":  2.0,
			"market_score": 0.5,
		},
	}
	s := NewScorer(logger.NewNop(), weights)

	config := contracts.IndicatorSet{
		"macro_score":  {Thresholds: []float64{25, 50, 75}, Positive: true},
		"market_score": {Thresholds: []float64{25, 50, 75}, Positive: true},
	}
	data := map[string]float64{
		"macro_score":  80, // -> 100
		"market_score": 30, // -> 50
	}

	result := s.GenerateScores(data, config, "risk_off")

	// weighted: (100*2 + 50*0.5) / 2.5 = 90
	if result.TotalScore == nil || *result.TotalScore != 90 {
		t.Errorf("TotalScore = %v, want 90", result.TotalScore)
	}

	// Unknown regime leaves the plain mean untouched
	neutral := s.GenerateScores(data, config, "sideways-ish")
	if neutral.TotalScore == nil || *neutral.TotalScore != 75 {
		t.Errorf("TotalScore for unknown regime = %v, want 75", neutral.TotalScore)
	}
}
