package level

import (
	"sort"

	"cryptoedge-mcp/internal/model"
)

// Consolidate sorts levels by price and merges those within Epsilon of each
// other: merged price is the mean, strength is the max input strength plus
// (count-1)*0.1 (clamped to 1), touches are summed, last-touch is the most
// recent, and the merged level is active if any member was active.
func Consolidate(levels []model.Level) []model.Level {
	if len(levels) == 0 {
		return nil
	}
	sorted := append([]model.Level{}, levels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	var merged []model.Level
	var counts []int
	var maxStrengths []float64
	for _, lvl := range sorted {
		if len(merged) > 0 {
			last := len(merged) - 1
			if pctDiff(merged[last].Price, lvl.Price) <= Epsilon {
				n := counts[last]
				merged[last].Price = (merged[last].Price*float64(n) + lvl.Price) / float64(n+1)
				if lvl.Strength > maxStrengths[last] {
					maxStrengths[last] = lvl.Strength
				}
				merged[last].Strength = clamp01(maxStrengths[last] + float64(n)*0.1)
				merged[last].Touches += lvl.Touches
				if lvl.LastTouch.After(merged[last].LastTouch) {
					merged[last].LastTouch = lvl.LastTouch
				}
				merged[last].Active = merged[last].Active || lvl.Active
				counts[last] = n + 1
				continue
			}
		}
		merged = append(merged, lvl)
		counts = append(counts, 1)
		maxStrengths = append(maxStrengths, lvl.Strength)
	}
	return merged
}
