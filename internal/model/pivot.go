package model

import "time"

// PivotKind is the closed set of pivot classifications.
type PivotKind string

const (
	PivotPeak       PivotKind = "Peak"
	PivotTrough     PivotKind = "Trough"
	PivotSupport    PivotKind = "Support"
	PivotResistance PivotKind = "Resistance"
	PivotBreakout   PivotKind = "Breakout"
)

// PivotPoint is a local price extremum derived from a candle series.
type PivotPoint struct {
	Time  time.Time
	Price float64
	Kind  PivotKind
	Index int
}
