package store

import (
	"errors"
	"testing"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/curve"
)

func validCustomSetup() *contracts.Setup {
	return &contracts.Setup{
		Name:          "contrarian",
		ExecutionMode: contracts.ExecutionModeCustom,
		BaseAmount:    100,
		DecisionCurve: &contracts.Curve{
			Points: []contracts.CurvePoint{
				{X: 0, Y: 1.5},
				{X: 100, Y: 0.5},
			},
		},
	}
}

func TestValidateSetup(t *testing.T) {
	if err := ValidateSetup(validCustomSetup()); err != nil {
		t.Errorf("valid custom setup rejected: %v", err)
	}

	fixed := &contracts.Setup{Name: "dca", ExecutionMode: contracts.ExecutionModeFixed, BaseAmount: 50}
	if err := ValidateSetup(fixed); err != nil {
		t.Errorf("valid fixed setup rejected: %v", err)
	}
}

func TestValidateSetupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contracts.Setup)
	}{
		{"missing name", func(s *contracts.Setup) { s.Name = "" }},
		{"zero base amount", func(s *contracts.Setup) { s.BaseAmount = 0 }},
		{"negative base amount", func(s *contracts.Setup) { s.BaseAmount = -1 }},
		{"unknown mode", func(s *contracts.Setup) { s.ExecutionMode = "hybrid" }},
		{"custom without curve", func(s *contracts.Setup) { s.DecisionCurve = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := validCustomSetup()
			tt.mutate(setup)
			if err := ValidateSetup(setup); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateSetupGatesDecisionCurve(t *testing.T) {
	setup := validCustomSetup()
	setup.DecisionCurve.Points[1].X = 90 // coverage violation: must end at 100

	err := ValidateSetup(setup)
	if err == nil {
		t.Fatal("expected curve validation error, got nil")
	}

	var cerr curve.CurveError
	if !errors.As(err, &cerr) {
		t.Errorf("expected CurveError, got %T: %v", err, err)
	}
}
