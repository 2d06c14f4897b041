package model

// RiskLevel is a closed set governing how conservative a caller wants
// pattern-driven signals to be.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// Threshold returns the minimum pattern confidence required to influence the
// aggregator at this risk level.
func (r RiskLevel) Threshold() float64 {
	switch r {
	case RiskConservative:
		return 0.8
	case RiskAggressive:
		return 0.4
	default:
		return 0.6
	}
}

// ParseRiskLevel maps the accepted alias strings from §6 onto a RiskLevel,
// defaulting to moderate when s is empty or unrecognized.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "conservative", "low":
		return RiskConservative
	case "aggressive", "high":
		return RiskAggressive
	case "moderate", "medium", "":
		return RiskModerate
	default:
		return RiskModerate
	}
}
