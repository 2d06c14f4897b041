package level

import (
	"sort"
	"time"

	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/pattern"
)

type pivotGroup struct {
	prices []float64
	kinds  []model.PivotKind
	last   time.Time
}

// PivotBased groups local highs/lows within Epsilon of each other, summing
// touches and tracking the most recent timestamp, retaining groups with
// >=2 touches.
func PivotBased(candles []model.Candle, current float64, now time.Time) []model.Level {
	pivots := pattern.Pivots(candles)
	if len(pivots) == 0 {
		return nil
	}
	sort.Slice(pivots, func(i, j int) bool { return pivots[i].Price < pivots[j].Price })

	var groups []pivotGroup
	for _, p := range pivots {
		if len(groups) > 0 {
			g := &groups[len(groups)-1]
			groupLevel := meanOf(g.prices)
			if pctDiff(groupLevel, p.Price) <= Epsilon {
				g.prices = append(g.prices, p.Price)
				g.kinds = append(g.kinds, p.Kind)
				if p.Time.After(g.last) {
					g.last = p.Time
				}
				continue
			}
		}
		groups = append(groups, pivotGroup{prices: []float64{p.Price}, kinds: []model.PivotKind{p.Kind}, last: p.Time})
	}

	var out []model.Level
	for _, g := range groups {
		if len(g.prices) < 2 {
			continue
		}
		price := meanOf(g.prices)
		kind := majorityKind(g.kinds)
		out = append(out, model.Level{
			Price:     price,
			Strength:  pivotStrength(len(g.prices), g.last, now),
			Kind:      kind,
			Touches:   len(g.prices),
			LastTouch: g.last,
			Active:    isActive(price, current),
		})
	}
	return out
}

func majorityKind(kinds []model.PivotKind) model.LevelKind {
	peaks, troughs := 0, 0
	for _, k := range kinds {
		if k == model.PivotPeak {
			peaks++
		} else {
			troughs++
		}
	}
	if peaks >= troughs {
		return model.LevelResistance
	}
	return model.LevelSupport
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
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
