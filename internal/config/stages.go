package config

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/dealcast/internal/model"
)

// StageProbability is the chance a deal in a stage eventually closes.
type StageProbability struct {
	Stage       model.Stage
	Probability decimal.Decimal
}

// defaultStageProbabilities is ordered by pipeline position.
var defaultStageProbabilities = []StageProbability{
	{model.StageIntroCall, decimal.RequireFromString("0.30")},
	{model.StageQualified, decimal.RequireFromString("0.42")},
	{model.StageDeepDive, decimal.RequireFromString("0.61")},
	{model.StageSolutionFit, decimal.RequireFromString("0.81")},
	{model.StageNegotiation, decimal.RequireFromString("0.95")},
	{model.StageClosedWon, decimal.RequireFromString("1.00")},
}

// StageTable returns a copy of the probability table in pipeline order.
func StageTable() []StageProbability {
	out := make([]StageProbability, len(defaultStageProbabilities))
	copy(out, defaultStageProbabilities)
	return out
}

// ProbabilityFor returns the close probability for s.
// Returns (zero, false) for stages outside the table.
func ProbabilityFor(s model.Stage) (decimal.Decimal, bool) {
	for _, sp := range defaultStageProbabilities {
		if sp.Stage == s {
			return sp.Probability, true
		}
	}
	return decimal.Zero, false
}

// LookupProbability returns the probability for a raw stage label.
// Labels must match the canonical text exactly.
func LookupProbability(label string) (decimal.Decimal, bool) {
	return ProbabilityFor(model.ParseStage(label))
}
