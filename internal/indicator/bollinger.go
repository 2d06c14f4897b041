package indicator

import (
	"math"

	"cryptoedge-mcp/internal/model"
)

// Bollinger computes the middle (SMA), upper/lower bands (middle ± k·σ using
// population variance over the window), bandwidth, and %B.
func Bollinger(candles []model.Candle, period int, k float64) []model.IndicatorValue {
	cl := closes(candles)
	middle := rollingSMA(cl, period)
	if len(middle) == 0 {
		return nil
	}

	out := make([]model.IndicatorValue, len(middle))
	for i, mid := range middle {
		barIdx := period - 1 + i
		window := cl[barIdx-period+1 : barIdx+1]
		var variance float64
		for _, v := range window {
			d := v - mid
			variance += d * d
		}
		variance /= float64(period)
		sigma := math.Sqrt(variance)

		upper := mid + k*sigma
		lower := mid - k*sigma
		width := upper - lower

		var percentB float64
		if width == 0 {
			percentB = 0.5
		} else {
			percentB = (cl[barIdx] - lower) / width
		}

		verdict := model.Hold
		switch {
		case percentB >= 1:
			verdict = model.Sell
		case percentB <= 0:
			verdict = model.Buy
		}

		out[i] = model.IndicatorValue{
			Name:      "BOLLINGER_20_2",
			Value:     mid,
			Verdict:   verdict,
			Timestamp: candles[barIdx].Time,
			Params: map[string]float64{
				"upper":     upper,
				"lower":     lower,
				"bandwidth": width,
				"percent_b": percentB,
			},
		}
	}
	return out
}
