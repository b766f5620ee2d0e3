package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tradedeck/backend/internal/contracts"
)

// systemPrompt is shared by every narrative. The hard constraint is the same
// one the scoring core enforces numerically: missing data is reported as
// missing, never invented.
const systemPrompt = `You are a market analyst writing for the operator of an automated crypto trading dashboard.

Rules:
- Use only the numbers provided in the input. Never fabricate a value; if a figure is missing, say it is unavailable.
- Scores are on a 25/50/75/100 scale where 100 is the most favorable reading.
- Be concise and concrete. No investment advice disclaimers, no hedging boilerplate.
- Write in plain prose with short sections. No tables.`

// ReportInput carries everything a narrative may reference.
type ReportInput struct {
	Period    string
	Scores    *contracts.ScoreRecord
	Market    map[string]contracts.IndicatorValue
	Decisions []*contracts.DecisionRecord
	Setup     *contracts.Setup
}

// BuildPrompt renders the user prompt for a report kind.
func BuildPrompt(kind contracts.ReportKind, input ReportInput) (string, error) {
	var b strings.Builder

	switch kind {
	case contracts.ReportDaily:
		fmt.Fprintf(&b, "Write the daily market report for %s.\n", input.Period)
	case contracts.ReportWeekly:
		fmt.Fprintf(&b, "Write the weekly market review for %s. Focus on the change over the week.\n", input.Period)
	case contracts.ReportMonthly:
		fmt.Fprintf(&b, "Write the monthly market review for %s.\n", input.Period)
	case contracts.ReportQuarterly:
		fmt.Fprintf(&b, "Write the quarterly market review for %s, including regime shifts.\n", input.Period)
	case contracts.ReportSetup:
		if input.Setup == nil {
			return "", fmt.Errorf("setup report requires a setup")
		}
		fmt.Fprintf(&b, "Explain the trading setup %q: what it does, when it sizes up or down, and when it pauses.\n", input.Setup.Name)
		writeSetup(&b, input.Setup)
	case contracts.ReportStrategy:
		fmt.Fprintf(&b, "Given the current scores and recent decisions, suggest adjustments to the active setups for %s. Flag anything that looks misconfigured.\n", input.Period)
	default:
		return "", fmt.Errorf("unknown report kind %q", kind)
	}

	writeScores(&b, input.Scores)
	writeMarket(&b, input.Market)
	writeDecisions(&b, input.Decisions)

	return b.String(), nil
}

func writeScores(b *strings.Builder, record *contracts.ScoreRecord) {
	if record == nil {
		b.WriteString("\nCategory scores: unavailable.\n")
		return
	}

	b.WriteString("\nCategory scores:\n")
	for _, key := range sortedKeys(record.Scores) {
		fmt.Fprintf(b, "- %s: %.2f\n", key, record.Scores[key])
	}
	if record.Regime != "" {
		fmt.Fprintf(b, "Detected regime: %s\n", record.Regime)
	}
}

func writeMarket(b *strings.Builder, market map[string]contracts.IndicatorValue) {
	if len(market) == 0 {
		return
	}

	names := make([]string, 0, len(market))
	for name := range market {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("\nRaw indicators:\n")
	for _, name := range names {
		v := market[name]
		fmt.Fprintf(b, "- %s: %v (source: %s)\n", name, v.Value, v.Source)
	}
}

func writeDecisions(b *strings.Builder, decisions []*contracts.DecisionRecord) {
	if len(decisions) == 0 {
		return
	}

	b.WriteString("\nRecent sizing decisions:\n")
	for _, d := range decisions {
		if d.Paused {
			fmt.Fprintf(b, "- %s: paused by %s (amount forced to 0)\n", d.SetupName, d.PausedBy)
			continue
		}
		fmt.Fprintf(b, "- %s: amount %.2f (multiplier %.4f)\n", d.SetupName, d.Amount, d.Multiplier)
	}
}

func writeSetup(b *strings.Builder, setup *contracts.Setup) {
	fmt.Fprintf(b, "\nSetup definition:\n- execution_mode: %s\n- base_amount: %.2f\n", setup.ExecutionMode, setup.BaseAmount)

	if setup.DecisionCurve != nil {
		fmt.Fprintf(b, "- decision curve on %q:", setup.DecisionCurve.InputKey())
		for _, p := range setup.DecisionCurve.Points {
			fmt.Fprintf(b, " (%g -> %gx)", p.X, p.Y)
		}
		b.WriteString("\n")
	}

	condKeys := make([]string, 0, len(setup.PauseConditions))
	for key := range setup.PauseConditions {
		condKeys = append(condKeys, key)
	}
	sort.Strings(condKeys)

	for _, key := range condKeys {
		cond := setup.PauseConditions[key]
		if cond.GT != nil {
			fmt.Fprintf(b, "- pauses when %s > %g\n", key, *cond.GT)
		}
		if cond.LT != nil {
			fmt.Fprintf(b, "- pauses when %s < %g\n", key, *cond.LT)
		}
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
