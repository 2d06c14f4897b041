package model

// Signal is the composite trading recommendation produced by the aggregator.
type Signal struct {
	Primary    Verdict
	Confidence float64
	Entry      float64
	Stop       *float64
	TakeProfit *float64
	Reasoning  string
	Breakdown  []ContributorVerdict
}

// ContributorVerdict records one input to the aggregator's final decision,
// used to populate Signal.Breakdown.
type ContributorVerdict struct {
	Source  string
	Verdict Verdict
}
