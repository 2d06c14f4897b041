package model

import "time"

// LevelKind is the closed set of support/resistance level origins.
type LevelKind string

const (
	LevelSupport    LevelKind = "Support"
	LevelResistance LevelKind = "Resistance"
	LevelPivot      LevelKind = "Pivot"
	LevelFibonacci  LevelKind = "Fibonacci"
)

// Level is a consolidated support/resistance price level.
type Level struct {
	Price     float64
	Strength  float64
	Kind      LevelKind
	Touches   int
	LastTouch time.Time
	Active    bool
}

// TrendLine is a dynamic (sloped) support/resistance line fitted across
// pivots of one sign.
type TrendLine struct {
	Slope     float64
	Intercept float64
	Kind      LevelKind
}

// ValueAt evaluates the trend line at the given bar index.
func (t TrendLine) ValueAt(index int) float64 {
	return t.Slope*float64(index) + t.Intercept
}
