package contracts

import "time"

// ReportKind identifies the narrative type produced by the AI layer.
type ReportKind string

const (
	ReportDaily     ReportKind = "daily"
	ReportWeekly    ReportKind = "weekly"
	ReportMonthly   ReportKind = "monthly"
	ReportQuarterly ReportKind = "quarterly"
	ReportSetup     ReportKind = "setup"
	ReportStrategy  ReportKind = "strategy"
)

// ValidReportKind reports whether k is one of the known kinds.
func ValidReportKind(k ReportKind) bool {
	switch k {
	case ReportDaily, ReportWeekly, ReportMonthly, ReportQuarterly, ReportSetup, ReportStrategy:
		return true
	}
	return false
}

// Report is a generated trading narrative.
type Report struct {
	ID        int64      `json:"id,omitempty"`
	Kind      ReportKind `json:"kind"`
	Period    string     `json:"period"` // e.g. "2026-08-26", "2026-W34", "2026-Q3"
	Content   string     `json:"content"`
	Model     string     `json:"model"`
	CreatedAt time.Time  `json:"created_at"`
}
