package level

import (
	"math"
	"time"

	"cryptoedge-mcp/internal/model"
)

const psychBaseStrength = 0.4

// psychStep picks the round-number grid step by current-price magnitude.
func psychStep(current float64) float64 {
	switch {
	case current < 1:
		return 0.1
	case current < 10:
		return 1
	case current < 100:
		return 10
	case current < 1000:
		return 100
	case current < 10000:
		return 1000
	default:
		return 10000
	}
}

// Psychological computes round-number gridpoints within the series range
// that have >=1 actual touch.
func Psychological(candles []model.Candle, current float64, now time.Time) []model.Level {
	if len(candles) == 0 || current <= 0 {
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
	step := psychStep(current)

	start := math.Floor(lo/step) * step
	var out []model.Level
	for price := start; price <= hi; price += step {
		if price < lo {
			continue
		}
		count, last := touches(candles, price)
		if count < 1 {
			continue
		}
		strength := clamp01(psychBaseStrength + touchCountBonus(count))
		kind := model.LevelSupport
		if price > current {
			kind = model.LevelResistance
		}
		out = append(out, model.Level{
			Price:     price,
			Strength:  strength,
			Kind:      kind,
			Touches:   count,
			LastTouch: last,
			Active:    isActive(price, current),
		})
	}
	return out
}
