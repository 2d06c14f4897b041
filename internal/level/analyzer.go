package level

import (
	"time"

	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/pattern"
)

// Result bundles the consolidated support/resistance levels with any
// dynamic trend lines fitted across the same series.
type Result struct {
	Levels     []model.Level
	TrendLines []model.TrendLine
}

// Analyze runs all four level-detection methods (pivot clustering, volume
// profile, Fibonacci retracement, psychological round numbers), unions and
// consolidates their output, and fits dynamic trend lines across the
// series' pivots. Series shorter than MinCandles yield an empty Result.
func Analyze(candles []model.Candle, current float64, now time.Time) Result {
	if len(candles) < MinCandles {
		return Result{}
	}

	var all []model.Level
	all = append(all, PivotBased(candles, current, now)...)
	all = append(all, VolumeProfile(candles, current, now)...)
	all = append(all, Fibonacci(candles, current, now)...)
	all = append(all, Psychological(candles, current, now)...)

	pivots := pattern.Pivots(candles)

	return Result{
		Levels:     Consolidate(all),
		TrendLines: TrendLines(pivots),
	}
}
