package decision

import (
	"errors"
	"math"
	"testing"

	"github.com/tradedeck/backend/internal/contracts"
)

// contrarianCurve sizes up when the market score is low and down when it is
// high.
func contrarianCurve() *contracts.Curve {
	return &contracts.Curve{
		Input: "market_score",
		Points: []contracts.CurvePoint{
			{X: 0, Y: 1.5},
			{X: 40, Y: 1.5},
			{X: 80, Y: 0.0},
			{X: 100, Y: 0.0},
		},
	}
}

func TestDecideAmountFixedMode(t *testing.T) {
	setup := &contracts.Setup{
		Name:          "dca-weekly",
		ExecutionMode: contracts.ExecutionModeFixed,
		BaseAmount:    100,
		DecisionCurve: contrarianCurve(), // present but must be ignored
	}

	for _, scores := range []contracts.ScoreSnapshot{
		{"market_score": 50},
		{"market_score": 0},
		nil,
	} {
		amount, err := DecideAmount(setup, scores)
		if err != nil {
			t.Fatalf("DecideAmount(fixed, %v) error: %v", scores, err)
		}
		if amount != 100.00 {
			t.Errorf("DecideAmount(fixed, %v) = %v, want 100.00", scores, amount)
		}
	}
}

func TestDecideAmountCustomMode(t *testing.T) {
	setup := &contracts.Setup{
		Name:          "contrarian",
		ExecutionMode: contracts.ExecutionModeCustom,
		BaseAmount:    100,
		DecisionCurve: contrarianCurve(),
	}

	tests := []struct {
		score float64
		want  float64
	}{
		{20, 150.00}, // multiplier 1.5
		{90, 0.00},   // multiplier 0.0
		{60, 75.00},  // midpoint of (40,1.5)-(80,0.0) -> 0.75
	}

	for _, tt := range tests {
		amount, err := DecideAmount(setup, contracts.ScoreSnapshot{"market_score": tt.score})
		if err != nil {
			t.Fatalf("DecideAmount(score=%v) error: %v", tt.score, err)
		}
		if amount != tt.want {
			t.Errorf("DecideAmount(score=%v) = %v, want %v", tt.score, amount, tt.want)
		}
	}
}

func TestDecideAmountCustomModeUsesCurveInput(t *testing.T) {
	setup := &contracts.Setup{
		ExecutionMode: contracts.ExecutionModeCustom,
		BaseAmount:    200,
		DecisionCurve: &contracts.Curve{
			Input: "macro_score",
			Points: []contracts.CurvePoint{
				{X: 0, Y: 0.5},
				{X: 100, Y: 1.5},
			},
		},
	}

	amount, err := DecideAmount(setup, contracts.ScoreSnapshot{
		"macro_score":  50, // -> multiplier 1.0
		"market_score": 0,  // must not be consulted
	})
	if err != nil {
		t.Fatalf("DecideAmount error: %v", err)
	}
	if amount != 200.00 {
		t.Errorf("DecideAmount = %v, want 200.00", amount)
	}
}

func TestDecideAmountClampsToZero(t *testing.T) {
	setup := &contracts.Setup{
		ExecutionMode: contracts.ExecutionModeCustom,
		BaseAmount:    100,
		DecisionCurve: &contracts.Curve{
			Points: []contracts.CurvePoint{
				{X: 0, Y: 1.0},
				{X: 100, Y: -1.0},
			},
		},
	}

	amount, err := DecideAmount(setup, contracts.ScoreSnapshot{"market_score": 90})
	if err != nil {
		t.Fatalf("DecideAmount error: %v", err)
	}
	if amount != 0.00 {
		t.Errorf("DecideAmount = %v, want 0.00 (amount never goes negative)", amount)
	}
}

func TestDecideAmountErrors(t *testing.T) {
	scores := contracts.ScoreSnapshot{"market_score": 50}

	tests := []struct {
		name  string
		setup *contracts.Setup
	}{
		{"nil setup", nil},
		{"empty setup", &contracts.Setup{}},
		{"zero base amount", &contracts.Setup{ExecutionMode: contracts.ExecutionModeFixed}},
		{"negative base amount", &contracts.Setup{ExecutionMode: contracts.ExecutionModeFixed, BaseAmount: -10}},
		{"NaN base amount", &contracts.Setup{ExecutionMode: contracts.ExecutionModeFixed, BaseAmount: math.NaN()}},
		{"custom without curve", &contracts.Setup{ExecutionMode: contracts.ExecutionModeCustom, BaseAmount: 100}},
		{"unknown mode", &contracts.Setup{ExecutionMode: "martingale", BaseAmount: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecideAmount(tt.setup, scores)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var derr DecisionError
			if !errors.As(err, &derr) {
				t.Errorf("expected DecisionError, got %T: %v", err, err)
			}
		})
	}
}

func TestDecideAmountUnknownModeNamesMode(t *testing.T) {
	setup := &contracts.Setup{ExecutionMode: "martingale", BaseAmount: 100}

	_, err := DecideAmount(setup, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if want := `unknown execution_mode "martingale"`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestDecideAmountMissingInputScore(t *testing.T) {
	setup := &contracts.Setup{
		ExecutionMode: contracts.ExecutionModeCustom,
		BaseAmount:    100,
		DecisionCurve: contrarianCurve(),
	}

	_, err := DecideAmount(setup, contracts.ScoreSnapshot{"macro_score": 50})
	if err == nil {
		t.Fatal("expected error for missing market_score, got nil")
	}

	_, err = DecideAmount(setup, contracts.ScoreSnapshot{"market_score": math.NaN()})
	if err == nil {
		t.Fatal("expected error for NaN market_score, got nil")
	}
}

func TestDecideAmountIdempotent(t *testing.T) {
	setup := &contracts.Setup{
		ExecutionMode: contracts.ExecutionModeCustom,
		BaseAmount:    100,
		DecisionCurve: contrarianCurve(),
	}
	scores := contracts.ScoreSnapshot{"market_score": 33.3}

	first, err := DecideAmount(setup, scores)
	if err != nil {
		t.Fatalf("DecideAmount error: %v", err)
	}
	second, err := DecideAmount(setup, scores)
	if err != nil {
		t.Fatalf("DecideAmount error: %v", err)
	}
	if first != second {
		t.Errorf("DecideAmount not idempotent: %v != %v", first, second)
	}
}
