package model

import "testing"

func TestParseRiskLevelAliases(t *testing.T) {
	cases := map[string]RiskLevel{
		"conservative": RiskConservative,
		"low":          RiskConservative,
		"moderate":     RiskModerate,
		"medium":       RiskModerate,
		"":             RiskModerate,
		"aggressive":   RiskAggressive,
		"high":         RiskAggressive,
		"nonsense":     RiskModerate,
	}
	for in, want := range cases {
		if got := ParseRiskLevel(in); got != want {
			t.Errorf("ParseRiskLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRiskLevelThresholds(t *testing.T) {
	if RiskConservative.Threshold() != 0.8 {
		t.Errorf("conservative threshold = %v, want 0.8", RiskConservative.Threshold())
	}
	if RiskModerate.Threshold() != 0.6 {
		t.Errorf("moderate threshold = %v, want 0.6", RiskModerate.Threshold())
	}
	if RiskAggressive.Threshold() != 0.4 {
		t.Errorf("aggressive threshold = %v, want 0.4", RiskAggressive.Threshold())
	}
}
