package indicator

import "cryptoedge-mcp/internal/model"

// MACD computes the MACD line (EMA(fast)-EMA(slow)), a signal line seeded by
// SMA(signal) of the first signal MACD values then EMA-smoothed, and the
// histogram (MACD-signal).
func MACD(candles []model.Candle, fast, slow, signal int) []model.IndicatorValue {
	cl := closes(candles)
	emaFast := rollingEMA(cl, fast) // starts at index fast-1
	emaSlow := rollingEMA(cl, slow) // starts at index slow-1
	if len(emaFast) == 0 || len(emaSlow) == 0 {
		return nil
	}

	// Align both EMAs to slow-1 onward.
	offset := slow - fast
	if offset < 0 || offset >= len(emaFast) {
		return nil
	}
	alignedFast := emaFast[offset:]
	n := len(emaSlow)
	if len(alignedFast) < n {
		n = len(alignedFast)
	}
	macdLine := make([]float64, n)
	for i := 0; i < n; i++ {
		macdLine[i] = alignedFast[i] - emaSlow[i]
	}
	if len(macdLine) < signal {
		return nil
	}

	// Signal line: seed with the mean of the first `signal` MACD values
	// (indices [0, signal)), then EMA-smooth the remainder with
	// alpha = 2/(signal+1) — the same series rollingEMA(macdLine, signal)
	// would produce.
	alpha := 2.0 / float64(signal+1)
	signalLine := make([]float64, len(macdLine)-signal+1)
	signalLine[0] = mean(macdLine[:signal])
	for i := signal; i < len(macdLine); i++ {
		signalLine[i-signal+1] = macdLine[i]*alpha + signalLine[i-signal]*(1-alpha)
	}

	out := make([]model.IndicatorValue, len(signalLine))
	for i, sig := range signalLine {
		macdIdx := signal - 1 + i
		macdVal := macdLine[macdIdx]
		hist := macdVal - sig
		barIdx := slow - 1 + macdIdx

		verdict := model.Hold
		switch {
		case macdVal > sig && hist > 0:
			verdict = model.Buy
		case macdVal < sig && hist < 0:
			verdict = model.Sell
		}

		out[i] = model.IndicatorValue{
			Name:      "MACD_12_26_9",
			Value:     macdVal,
			Verdict:   verdict,
			Timestamp: candles[barIdx].Time,
			Params:    map[string]float64{"macd": macdVal, "signal": sig, "histogram": hist},
		}
	}
	return out
}
