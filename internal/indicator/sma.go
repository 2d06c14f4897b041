package indicator

import (
	"strconv"

	"cryptoedge-mcp/internal/model"
)

// rollingSMA returns the period-p simple moving average of vals, one value
// per index [period-1, len(vals)), satisfying the warm-up property of
// SPEC_FULL.md §8.3: len(vals)-period+1 values when len(vals) >= period.
func rollingSMA(vals []float64, period int) []float64 {
	if period <= 0 || len(vals) < period {
		return nil
	}
	out := make([]float64, len(vals)-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += vals[i]
	}
	out[0] = sum / float64(period)
	for i := period; i < len(vals); i++ {
		sum += vals[i] - vals[i-period]
		out[i-period+1] = sum / float64(period)
	}
	return out
}

// SMA emits one IndicatorValue per bar from index period-1 onward.
func SMA(candles []model.Candle, period int) []model.IndicatorValue {
	cl := closes(candles)
	series := rollingSMA(cl, period)
	if len(series) == 0 {
		return nil
	}
	name := smaName(period)
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

func smaName(period int) string {
	switch period {
	case 20:
		return "SMA_20"
	case 50:
		return "SMA_50"
	case 200:
		return "SMA_200"
	default:
		return "SMA_" + strconv.Itoa(period)
	}
}
