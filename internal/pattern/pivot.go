// Package pattern recognizes chart and candlestick formations from a
// candle series: pivot extraction, reversal patterns, continuation
// patterns, and candlestick patterns, each with a confidence score and
// optional target/stop.
package pattern

import "cryptoedge-mcp/internal/model"

// Epsilon is the default price tolerance (2%) used throughout pattern
// matching unless a rule states otherwise.
const Epsilon = 0.02

// MinCandles is the minimum series length the recognizer requires; shorter
// series yield no patterns.
const MinCandles = 10

// Pivots extracts local peaks (on highs) and troughs (on lows) from an
// interior-bar comparison against immediate neighbors.
func Pivots(candles []model.Candle) []model.PivotPoint {
	var out []model.PivotPoint
	for i := 1; i < len(candles)-1; i++ {
		if candles[i].High > candles[i-1].High && candles[i].High > candles[i+1].High {
			out = append(out, model.PivotPoint{
				Time: candles[i].Time, Price: candles[i].High, Kind: model.PivotPeak, Index: i,
			})
		}
		if candles[i].Low < candles[i-1].Low && candles[i].Low < candles[i+1].Low {
			out = append(out, model.PivotPoint{
				Time: candles[i].Time, Price: candles[i].Low, Kind: model.PivotTrough, Index: i,
			})
		}
	}
	return out
}

// Peaks filters pivots down to just the peaks, in index order.
func Peaks(pivots []model.PivotPoint) []model.PivotPoint {
	return filterKind(pivots, model.PivotPeak)
}

// Troughs filters pivots down to just the troughs, in index order.
func Troughs(pivots []model.PivotPoint) []model.PivotPoint {
	return filterKind(pivots, model.PivotTrough)
}

func filterKind(pivots []model.PivotPoint, kind model.PivotKind) []model.PivotPoint {
	var out []model.PivotPoint
	for _, p := range pivots {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func withinEps(a, b, eps float64) bool {
	if a == 0 {
		return b == 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/a <= eps
}

func pctDiff(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d / a
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
