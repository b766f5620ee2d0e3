// Package scoringconfig loads and validates the indicator scoring
// configuration from YAML. The file is the single source of truth for which
// indicators feed each category score and for the regime weight maps; it is
// validated strictly at load time so the scorer never sees a malformed
// threshold list from configuration.
package scoringconfig

import (
	"github.com/tradedeck/backend/internal/contracts"
)

// Config is the parsed scoring configuration.
type Config struct {
	Meta          Meta                              `yaml:"meta" json:"meta"`
	Categories    map[string]contracts.IndicatorSet `yaml:"categories" json:"categories"`
	RegimeWeights map[string]map[string]float64     `yaml:"regime_weights,omitempty" json:"regime_weights,omitempty"`
}

// Meta identifies a configuration revision.
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Category returns the indicator set for one category score
// (e.g. "macro", "technical").
func (c *Config) Category(name string) (contracts.IndicatorSet, bool) {
	set, ok := c.Categories[name]
	return set, ok
}

// CategoryNames returns the configured category names in unspecified order.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	return names
}
