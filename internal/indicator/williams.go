package indicator

import "cryptoedge-mcp/internal/model"

// WilliamsR computes %R = -100*(high_p-close)/(high_p-low_p), or -50 when
// the window's range is 0.
func WilliamsR(candles []model.Candle, period int) []model.IndicatorValue {
	if len(candles) < period {
		return nil
	}
	out := make([]model.IndicatorValue, 0, len(candles)-period+1)
	for i := period - 1; i < len(candles); i++ {
		window := candles[i-period+1 : i+1]
		hi, lo := window[0].High, window[0].Low
		for _, c := range window {
			if c.High > hi {
				hi = c.High
			}
			if c.Low < lo {
				lo = c.Low
			}
		}
		rng := hi - lo
		var r float64
		if rng == 0 {
			r = -50
		} else {
			r = -100 * (hi - candles[i].Close) / rng
		}

		verdict := model.Hold
		switch {
		case r >= -20:
			verdict = model.Sell
		case r <= -80:
			verdict = model.Buy
		}

		out = append(out, model.IndicatorValue{
			Name:      "WILLIAMS_R_14",
			Value:     r,
			Verdict:   verdict,
			Timestamp: candles[i].Time,
			Params:    map[string]float64{"period": float64(period)},
		})
	}
	return out
}
