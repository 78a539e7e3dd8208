package model

// Stage is a canonical sales pipeline stage.
// StageUnknown is the explicit variant for labels outside the canonical set.
type Stage int

const (
	StageUnknown Stage = iota
	StageIntroCall
	StageQualified
	StageDeepDive
	StageSolutionFit
	StageNegotiation
	StageClosedWon
)

var stageLabels = [...]string{
	StageUnknown:     "",
	StageIntroCall:   "S1 - Introductory Call Completed",
	StageQualified:   "S2 - Sales Qualified Opportunity",
	StageDeepDive:    "S3 - Initial Deep-dive Completed",
	StageSolutionFit: "S4 - Solution Fit Confirmed",
	StageNegotiation: "S5 - Pricing and Negotiation",
	StageClosedWon:   "S6 - Closed Won",
}

// Stages returns the canonical stages in pipeline order.
func Stages() []Stage {
	return []Stage{
		StageIntroCall,
		StageQualified,
		StageDeepDive,
		StageSolutionFit,
		StageNegotiation,
		StageClosedWon,
	}
}

// Label returns the canonical label, or "" for StageUnknown.
func (s Stage) Label() string {
	if s < 0 || int(s) >= len(stageLabels) {
		return ""
	}
	return stageLabels[s]
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if s == StageUnknown {
		return "unknown"
	}
	return s.Label()
}

// Known reports whether s is one of the six canonical stages.
func (s Stage) Known() bool {
	return s > StageUnknown && int(s) < len(stageLabels)
}

// ParseStage matches a label exactly against the canonical set.
func ParseStage(label string) Stage {
	for _, s := range Stages() {
		if stageLabels[s] == label {
			return s
		}
	}
	return StageUnknown
}
