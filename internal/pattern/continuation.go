package pattern

import (
	"time"

	"cryptoedge-mcp/internal/model"
)

const minTrianglePivots = 3

func isFlat(pivots []model.PivotPoint) bool {
	if len(pivots) < 2 {
		return false
	}
	level := meanPivotPrice(pivots)
	for _, p := range pivots {
		if pctDiff(level, p.Price) > Epsilon {
			return false
		}
	}
	return true
}

func isAscending(pivots []model.PivotPoint) bool {
	return len(pivots) >= 2 && pivots[len(pivots)-1].Price > pivots[0].Price
}

func isDescending(pivots []model.PivotPoint) bool {
	return len(pivots) >= 2 && pivots[len(pivots)-1].Price < pivots[0].Price
}

func rangeAt(peaks, troughs []model.PivotPoint, idx func([]model.PivotPoint) model.PivotPoint) float64 {
	return idx(peaks).Price - idx(troughs).Price
}

func first(p []model.PivotPoint) model.PivotPoint { return p[0] }
func last(p []model.PivotPoint) model.PivotPoint   { return p[len(p)-1] }

// Triangles detects ascending, descending and symmetrical triangles.
func Triangles(candles []model.Candle, peaks, troughs []model.PivotPoint) []model.ChartPattern {
	if len(peaks) < minTrianglePivots || len(troughs) < minTrianglePivots {
		return nil
	}
	var out []model.ChartPattern

	if isFlat(peaks) && isAscending(troughs) {
		flatLevel := meanPivotPrice(peaks)
		target := flatLevel * 1.05
		out = append(out, triangleChartPattern(model.PatternAscendingTriangle, 0.7,
			peaks, troughs, target, "ascending triangle: horizontal resistance, rising support"))
	}
	if isFlat(troughs) && isDescending(peaks) {
		flatLevel := meanPivotPrice(troughs)
		target := flatLevel * 0.95
		out = append(out, triangleChartPattern(model.PatternDescendingTriangle, 0.7,
			peaks, troughs, target, "descending triangle: horizontal support, falling resistance"))
	}
	if isDescending(peaks) && isAscending(troughs) {
		initialRange := rangeAt(peaks, troughs, first)
		finalRange := rangeAt(peaks, troughs, last)
		if initialRange > 0 {
			compression := 1 - finalRange/initialRange
			if compression >= 0.3 {
				mid := (last(peaks).Price + last(troughs).Price) / 2
				target := mid + 0.5*initialRange
				out = append(out, triangleChartPattern(model.PatternSymmetricalTriangle, 0.65,
					peaks, troughs, target, "symmetrical triangle: converging trendlines"))
			}
		}
	}
	return out
}

func triangleChartPattern(kind model.PatternKind, confidence float64, peaks, troughs []model.PivotPoint, target float64, desc string) model.ChartPattern {
	keyPoints := append(append([]model.PivotPoint{}, peaks...), troughs...)
	start, end := boundsOf(keyPoints)
	return model.ChartPattern{
		Kind:        kind,
		Confidence:  confidence,
		Start:       start,
		End:         end,
		KeyPoints:   keyPoints,
		Description: desc,
		Target:      &target,
		Bullish:     kind.IsBullish(),
		Reversal:    kind.IsReversal(),
	}
}

func boundsOf(pivots []model.PivotPoint) (start, end time.Time) {
	if len(pivots) == 0 {
		return
	}
	start, end = pivots[0].Time, pivots[0].Time
	for _, p := range pivots {
		if p.Time.Before(start) {
			start = p.Time
		}
		if p.Time.After(end) {
			end = p.Time
		}
	}
	return
}

// Wedges detects rising and falling wedges: peaks and troughs trend the
// same direction while the range narrows.
func Wedges(candles []model.Candle, peaks, troughs []model.PivotPoint) []model.ChartPattern {
	if len(peaks) < minTrianglePivots || len(troughs) < minTrianglePivots {
		return nil
	}
	var out []model.ChartPattern

	narrowing := func() bool {
		initialRange := rangeAt(peaks, troughs, first)
		finalRange := rangeAt(peaks, troughs, last)
		return initialRange > 0 && finalRange < initialRange
	}

	if isAscending(peaks) && isAscending(troughs) && narrowing() {
		out = append(out, wedgeChartPattern(model.PatternRisingWedge, peaks, troughs,
			"rising wedge: both bounds climb while the range narrows, bearish"))
	}
	if isDescending(peaks) && isDescending(troughs) && narrowing() {
		out = append(out, wedgeChartPattern(model.PatternFallingWedge, peaks, troughs,
			"falling wedge: both bounds fall while the range narrows, bullish"))
	}
	return out
}

func wedgeChartPattern(kind model.PatternKind, peaks, troughs []model.PivotPoint, desc string) model.ChartPattern {
	keyPoints := append(append([]model.PivotPoint{}, peaks...), troughs...)
	start, end := boundsOf(keyPoints)
	apex := last(peaks).Price
	if kind == model.PatternRisingWedge {
		apex = last(troughs).Price
	}
	return model.ChartPattern{
		Kind:        kind,
		Confidence:  0.6,
		Start:       start,
		End:         end,
		KeyPoints:   keyPoints,
		Description: desc,
		Stop:        &apex,
		Bullish:     kind.IsBullish(),
		Reversal:    kind.IsReversal(),
	}
}

// Rectangle detects a horizontal consolidation between >=3 peaks and >=3
// troughs, each sequence within Epsilon of its own mean.
func Rectangle(candles []model.Candle, peaks, troughs []model.PivotPoint) []model.ChartPattern {
	if len(peaks) < minTrianglePivots || len(troughs) < minTrianglePivots {
		return nil
	}
	if !isFlat(peaks) || !isFlat(troughs) {
		return nil
	}
	resistance := meanPivotPrice(peaks)
	support := meanPivotPrice(troughs)
	target := resistance + (resistance - support)

	keyPoints := append(append([]model.PivotPoint{}, peaks...), troughs...)
	start, end := boundsOf(keyPoints)
	return []model.ChartPattern{{
		Kind:        model.PatternRectangle,
		Confidence:  0.65,
		Start:       start,
		End:         end,
		KeyPoints:   keyPoints,
		Description: "rectangle: horizontal consolidation between support and resistance",
		Target:      &target,
		Bullish:     model.PatternRectangle.IsBullish(),
		Reversal:    model.PatternRectangle.IsReversal(),
	}}
}
