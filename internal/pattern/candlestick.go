package pattern

import "cryptoedge-mcp/internal/model"

// Candlestick scans the full candle series for single, dual, and triple-bar
// candlestick formations.
func Candlestick(candles []model.Candle) []model.ChartPattern {
	var out []model.ChartPattern
	for i, c := range candles {
		if p, ok := hammer(c); ok {
			out = append(out, p)
		}
		if p, ok := shootingStar(c); ok {
			out = append(out, p)
		}
		if p, ok := doji(c); ok {
			out = append(out, p)
		}
		if i >= 1 {
			if p, ok := engulfing(candles[i-1], c); ok {
				out = append(out, p)
			}
		}
		if i >= 2 {
			if p, ok := star(candles[i-2], candles[i-1], c); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func hammer(c model.Candle) (model.ChartPattern, bool) {
	body := c.Body()
	if body == 0 {
		return model.ChartPattern{}, false
	}
	if c.LowerShadow() >= 2*body && c.UpperShadow() <= 0.1*body {
		return singleBarPattern(model.PatternHammer, 0.6, c, "hammer: long lower wick, small body, bullish reversal signal"), true
	}
	return model.ChartPattern{}, false
}

func shootingStar(c model.Candle) (model.ChartPattern, bool) {
	body := c.Body()
	if body == 0 {
		return model.ChartPattern{}, false
	}
	if c.UpperShadow() >= 2*body && c.LowerShadow() <= 0.1*body {
		return singleBarPattern(model.PatternShootingStar, 0.6, c, "shooting star: long upper wick, small body, bearish reversal signal"), true
	}
	return model.ChartPattern{}, false
}

func doji(c model.Candle) (model.ChartPattern, bool) {
	if c.Doji() {
		return singleBarPattern(model.PatternDoji, 0.5, c, "doji: open and close nearly equal, indecision"), true
	}
	return model.ChartPattern{}, false
}

func singleBarPattern(kind model.PatternKind, confidence float64, c model.Candle, desc string) model.ChartPattern {
	return model.ChartPattern{
		Kind:        kind,
		Confidence:  confidence,
		Start:       c.Time,
		End:         c.Time,
		KeyPoints:   []model.PivotPoint{{Time: c.Time, Price: c.Close}},
		Description: desc,
		Bullish:     kind.IsBullish(),
		Reversal:    kind.IsReversal(),
	}
}

func engulfing(prev, cur model.Candle) (model.ChartPattern, bool) {
	if prev.Bullish() == cur.Bullish() {
		return model.ChartPattern{}, false
	}
	prevHi, prevLo := maxf(prev.Open, prev.Close), minf(prev.Open, prev.Close)
	curHi, curLo := maxf(cur.Open, cur.Close), minf(cur.Open, cur.Close)
	if curHi <= prevHi || curLo >= prevLo {
		return model.ChartPattern{}, false
	}
	kind := model.PatternBearishEngulfing
	desc := "bearish engulfing: bearish body fully covers the prior bullish body"
	if cur.Bullish() {
		kind = model.PatternBullishEngulfing
		desc = "bullish engulfing: bullish body fully covers the prior bearish body"
	}
	return model.ChartPattern{
		Kind:        kind,
		Confidence:  0.7,
		Start:       prev.Time,
		End:         cur.Time,
		KeyPoints:   []model.PivotPoint{{Time: prev.Time, Price: prev.Close}, {Time: cur.Time, Price: cur.Close}},
		Description: desc,
		Bullish:     kind.IsBullish(),
		Reversal:    kind.IsReversal(),
	}, true
}

func star(first, middle, third model.Candle) (model.ChartPattern, bool) {
	firstBody := first.Body()
	middleBody := middle.Body()
	if firstBody == 0 || middleBody > 0.3*firstBody {
		return model.ChartPattern{}, false
	}
	firstMid := (first.Open + first.Close) / 2

	if !first.Bullish() && third.Bullish() && third.Close > firstMid {
		return starPattern(model.PatternMorningStar, first, middle, third,
			"morning star: small middle body after a bearish bar, bullish third bar closing past the midpoint"), true
	}
	if first.Bullish() && !third.Bullish() && third.Close < firstMid {
		return starPattern(model.PatternEveningStar, first, middle, third,
			"evening star: small middle body after a bullish bar, bearish third bar closing past the midpoint"), true
	}
	return model.ChartPattern{}, false
}

func maxf(a, b float64) float64 {
	return max(a, b)
}

func minf(a, b float64) float64 {
	return min(a, b)
}

func starPattern(kind model.PatternKind, first, middle, third model.Candle, desc string) model.ChartPattern {
	return model.ChartPattern{
		Kind:       kind,
		Confidence: 0.8,
		Start:      first.Time,
		End:        third.Time,
		KeyPoints: []model.PivotPoint{
			{Time: first.Time, Price: first.Close},
			{Time: middle.Time, Price: middle.Close},
			{Time: third.Time, Price: third.Close},
		},
		Description: desc,
		Bullish:     kind.IsBullish(),
		Reversal:    kind.IsReversal(),
	}
}
