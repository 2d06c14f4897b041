package model

import "time"

// IndicatorValue is one bar's emission from the indicator engine.
type IndicatorValue struct {
	Name      string
	Value     float64
	Verdict   Verdict
	Timestamp time.Time
	Params    map[string]float64
}
