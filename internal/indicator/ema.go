package indicator

import (
	"strconv"

	"cryptoedge-mcp/internal/model"
)

// rollingEMA seeds at SMA(period) over the first window, then recurses
// EMAt = close*alpha + EMAt-1*(1-alpha), alpha = 2/(period+1). Returns one
// value per index [period-1, len(vals)), matching SMA's warm-up.
func rollingEMA(vals []float64, period int) []float64 {
	sma := rollingSMA(vals, period)
	if len(sma) == 0 {
		return nil
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(vals)-period+1)
	out[0] = sma[0]
	for i := period; i < len(vals); i++ {
		out[i-period+1] = vals[i]*alpha + out[i-period]*(1-alpha)
	}
	return out
}

// EMA emits one IndicatorValue per bar from index period-1 onward.
func EMA(candles []model.Candle, period int) []model.IndicatorValue {
	cl := closes(candles)
	series := rollingEMA(cl, period)
	if len(series) == 0 {
		return nil
	}
	name := "EMA_" + strconv.Itoa(period)
	out := make([]model.IndicatorValue, len(series))
	for i, v := range series {
		barIdx := period - 1 + i
		verdict := model.Hold
		if i > 0 {
			verdict = trendVerdict(v, series[i-1], cl[barIdx])
		}
		out[i] = model.IndicatorValue{
			Name:      name,
			Value:     v,
			Verdict:   verdict,
			Timestamp: candles[barIdx].Time,
			Params:    map[string]float64{"period": float64(period)},
		}
	}
	return out
}
