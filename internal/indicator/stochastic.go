package indicator

import "cryptoedge-mcp/internal/model"

// Stochastic computes %K and %D. %K = 100*(close-low_k)/(high_k-low_k) (50
// if the k-window range is 0); %D = SMA(d) of %K.
func Stochastic(candles []model.Candle, k, d int) []model.IndicatorValue {
	if len(candles) < k {
		return nil
	}
	percentK := make([]float64, len(candles)-k+1)
	for i := k - 1; i < len(candles); i++ {
		window := candles[i-k+1 : i+1]
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
		if rng == 0 {
			percentK[i-k+1] = 50
		} else {
			percentK[i-k+1] = 100 * (candles[i].Close - lo) / rng
		}
	}

	percentD := rollingSMA(percentK, d)
	if len(percentD) == 0 {
		return nil
	}

	out := make([]model.IndicatorValue, len(percentD))
	for i, dVal := range percentD {
		kVal := percentK[i+d-1]
		barIdx := k - 1 + i + d - 1

		verdict := model.Hold
		switch {
		case kVal >= 80 && dVal >= 80:
			verdict = model.Sell
		case kVal <= 20 && dVal <= 20:
			verdict = model.Buy
		case kVal > dVal && kVal < 80:
			verdict = model.Buy
		case kVal < dVal && kVal > 20:
			verdict = model.Sell
		}

		out[i] = model.IndicatorValue{
			Name:      "STOCH_14_3",
			Value:     kVal,
			Verdict:   verdict,
			Timestamp: candles[barIdx].Time,
			Params:    map[string]float64{"k": kVal, "d": dVal},
		}
	}
	return out
}
