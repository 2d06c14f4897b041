package level

import (
	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/pattern"
)

const trendLineMinSupport = 3

// TrendLines considers every pair of same-kind pivots as a candidate line
// and accepts those with at least trendLineMinSupport pivots of that kind
// lying within Epsilon of the line.
func TrendLines(pivots []model.PivotPoint) []model.TrendLine {
	peaks := pattern.Peaks(pivots)
	troughs := pattern.Troughs(pivots)

	var out []model.TrendLine
	out = append(out, candidateLines(peaks, model.LevelResistance)...)
	out = append(out, candidateLines(troughs, model.LevelSupport)...)
	return out
}

func candidateLines(pts []model.PivotPoint, kind model.LevelKind) []model.TrendLine {
	var out []model.TrendLine
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			a, b := pts[i], pts[j]
			dIdx := b.Index - a.Index
			if dIdx == 0 {
				continue
			}
			slope := (b.Price - a.Price) / float64(dIdx)
			intercept := a.Price - slope*float64(a.Index)

			support := 0
			for _, p := range pts {
				expected := slope*float64(p.Index) + intercept
				if pctDiff(expected, p.Price) <= Epsilon {
					support++
				}
			}
			if support < trendLineMinSupport {
				continue
			}
			out = append(out, model.TrendLine{Slope: slope, Intercept: intercept, Kind: kind})
		}
	}
	return out
}
