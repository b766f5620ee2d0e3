package contracts

import "time"

// IndicatorValue is a single raw market-data observation (e.g. btc_dominance,
// fear_greed_index, dxy) collected by the pollers and consumed by the scorer.
type IndicatorValue struct {
	ID         int64     `json:"id,omitempty"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}
