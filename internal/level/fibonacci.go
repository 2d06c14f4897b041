package level

import (
	"time"

	"cryptoedge-mcp/internal/model"
)

var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

const fibBaseStrength = 0.5

// Fibonacci computes retracement levels between the series' min and max,
// keeping any ratio with >=1 actual touch.
func Fibonacci(candles []model.Candle, current float64, now time.Time) []model.Level {
	if len(candles) == 0 {
		return nil
	}
	lo, hi := candles[0].Low, candles[0].High
	for _, c := range candles {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}
	rng := hi - lo

	var out []model.Level
	for _, r := range fibRatios {
		price := lo + rng*r
		count, last := touches(candles, price)
		if count < 1 {
			continue
		}
		strength := clamp01(fibBaseStrength + touchCountBonus(count))
		out = append(out, model.Level{
			Price:     price,
			Strength:  strength,
			Kind:      model.LevelFibonacci,
			Touches:   count,
			LastTouch: last,
			Active:    isActive(price, current),
		})
	}
	return out
}
