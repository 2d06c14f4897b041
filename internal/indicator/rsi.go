package indicator

import (
	"strconv"

	"cryptoedge-mcp/internal/model"
)

// RSI computes the Relative Strength Index using simple rolling averages
// of gains and losses over the most recent period deltas — deliberately not
// Wilder's recursive smoothing. This is the engine's documented contract
// (see SPEC_FULL.md §9.3); callers must not "fix" it to Wilder's form.
//
// avgGain/avgLoss are a simple mean of the period most recent close-to-close
// deltas; RS = avgLoss==0 ? 100 : avgGain/avgLoss; RSI = 100 - 100/(1+RS).
func RSI(candles []model.Candle, period int) []model.IndicatorValue {
	cl := closes(candles)
	if len(cl) < period+1 {
		return nil
	}
	deltas := make([]float64, len(cl)-1)
	for i := 1; i < len(cl); i++ {
		deltas[i-1] = cl[i] - cl[i-1]
	}

	n := len(cl) - period
	out := make([]model.IndicatorValue, 0, n)
	for barIdx := period; barIdx < len(cl); barIdx++ {
		window := deltas[barIdx-period : barIdx]
		var avgGain, avgLoss float64
		for _, d := range window {
			if d > 0 {
				avgGain += d
			} else {
				avgLoss -= d
			}
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)

		var rsi float64
		if avgLoss == 0 {
			rsi = 100
		} else {
			rs := avgGain / avgLoss
			rsi = 100 - 100/(1+rs)
		}

		verdict := model.Hold
		switch {
		case rsi >= 70:
			verdict = model.Sell
		case rsi <= 30:
			verdict = model.Buy
		}

		out = append(out, model.IndicatorValue{
			Name:      "RSI_" + strconv.Itoa(period),
			Value:     rsi,
			Verdict:   verdict,
			Timestamp: candles[barIdx].Time,
			Params:    map[string]float64{"period": float64(period)},
		})
	}
	return out
}
