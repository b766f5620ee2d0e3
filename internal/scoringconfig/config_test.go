package scoringconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
meta:
  name: tradedeck-scoring
  version: "1"

categories:
  macro:
    dxy:
      thresholds: [100, 104, 108]
      positive: false
    us10y:
      thresholds: [3.5, 4.0, 4.5]
      positive: false
  sentiment:
    fear_greed_index:
      thresholds: [25, 50, 75]
      positive: true
      weight: 1.5

regime_weights:
  risk_off:
    macro_score: 1.3
    sentiment_score: 0.7
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Meta.Name != "tradedeck-scoring" {
		t.Errorf("Meta.Name = %q", cfg.Meta.Name)
	}

	macro, ok := cfg.Category("macro")
	if !ok || len(macro) != 2 {
		t.Fatalf("macro category = %v, %v", macro, ok)
	}
	if macro["dxy"].Positive {
		t.Error("dxy should be lower-is-better")
	}

	sentiment, _ := cfg.Category("sentiment")
	if sentiment["fear_greed_index"].Weight != 1.5 {
		t.Errorf("fear_greed_index weight = %v, want 1.5", sentiment["fear_greed_index"].Weight)
	}

	if cfg.RegimeWeights["risk_off"]["macro_score"] != 1.3 {
		t.Error("regime weights not parsed")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	bad := `
meta:
  name: x
  version: "1"
  owner: someone
categories:
  macro:
    dxy:
      thresholds: [1, 2, 3]
      positive: false
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected unknown-field error, got nil")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
	}{
		{
			name:      "missing meta name",
			yaml:      "meta:\n  version: \"1\"\ncategories:\n  macro:\n    dxy:\n      thresholds: [1, 2, 3]\n",
			wantField: "meta.name",
		},
		{
			name:      "no categories",
			yaml:      "meta:\n  name: x\n  version: \"1\"\n",
			wantField: "categories",
		},
		{
			name:      "empty category",
			yaml:      "meta:\n  name: x\ncategories:\n  macro: {}\n",
			wantField: "categories.macro",
		},
		{
			name:      "wrong threshold count",
			yaml:      "meta:\n  name: x\ncategories:\n  macro:\n    dxy:\n      thresholds: [1, 2]\n",
			wantField: "categories.macro.dxy.thresholds",
		},
		{
			name:      "non-ascending thresholds",
			yaml:      "meta:\n  name: x\ncategories:\n  macro:\n    dxy:\n      thresholds: [3, 2, 1]\n",
			wantField: "categories.macro.dxy.thresholds",
		},
		{
			name:      "negative weight",
			yaml:      "meta:\n  name: x\ncategories:\n  macro:\n    dxy:\n      thresholds: [1, 2, 3]\n      weight: -1\n",
			wantField: "categories.macro.dxy.weight",
		},
		{
			name:      "regime weight out of range",
			yaml:      "meta:\n  name: x\ncategories:\n  macro:\n    dxy:\n      thresholds: [1, 2, 3]\nregime_weights:\n  risk_off:\n    macro_score: 10\n",
			wantField: "regime_weights.risk_off.macro_score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, raw, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(raw) == 0 {
		t.Error("raw bytes not returned")
	}
	if len(cfg.CategoryNames()) != 2 {
		t.Errorf("CategoryNames = %v", cfg.CategoryNames())
	}

	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHashIsReproducible(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}

	h1, err := Hash(cfg)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Hash(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if h1 != h2 {
		t.Errorf("hash not reproducible: %s != %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}

	// A config change must change the hash
	changed, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	changed.Meta.Version = "2"

	h3, err := Hash(changed)
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after config edit")
	}
}
