package pattern

import (
	"sort"

	"cryptoedge-mcp/internal/model"
)

// Detect runs the full pattern recognizer over candles, returning every
// detected pattern sorted by descending confidence. Series shorter than
// MinCandles yield no patterns.
func Detect(candles []model.Candle) []model.ChartPattern {
	if len(candles) < MinCandles {
		return nil
	}

	pivots := Pivots(candles)
	peaks := Peaks(pivots)
	troughs := Troughs(pivots)

	var out []model.ChartPattern
	out = append(out, Reversal(candles, pivots)...)
	out = append(out, Triangles(candles, peaks, troughs)...)
	out = append(out, Wedges(candles, peaks, troughs)...)
	out = append(out, Rectangle(candles, peaks, troughs)...)
	out = append(out, Candlestick(candles)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// FilterByConfidence keeps only patterns whose confidence meets threshold.
func FilterByConfidence(patterns []model.ChartPattern, threshold float64) []model.ChartPattern {
	var out []model.ChartPattern
	for _, p := range patterns {
		if p.Confidence >= threshold {
			out = append(out, p)
		}
	}
	return out
}
