package indicator

import "cryptoedge-mcp/internal/model"

// Name is the closed set of indicator families the engine knows how to
// compute, used by get_technical_indicators' indicators[] filter.
type Name string

const (
	NameSMA        Name = "sma"
	NameEMA        Name = "ema"
	NameRSI        Name = "rsi"
	NameMACD       Name = "macd"
	NameBollinger  Name = "bollinger"
	NameStochastic Name = "stochastic"
	NameWilliamsR  Name = "williams_r"
	NameOBV        Name = "obv"
)

// AllNames lists every indicator family, the default set when the caller
// does not filter.
var AllNames = []Name{NameSMA, NameEMA, NameRSI, NameMACD, NameBollinger, NameStochastic, NameWilliamsR, NameOBV}

// Series computes the full per-bar series for one indicator family.
func Series(candles []model.Candle, name Name) []model.IndicatorValue {
	switch name {
	case NameSMA:
		return SMA(candles, 20)
	case NameEMA:
		return EMA(candles, 20)
	case NameRSI:
		return RSI(candles, 14)
	case NameMACD:
		return MACD(candles, 12, 26, 9)
	case NameBollinger:
		return Bollinger(candles, 20, 2.0)
	case NameStochastic:
		return Stochastic(candles, 14, 3)
	case NameWilliamsR:
		return WilliamsR(candles, 14)
	case NameOBV:
		return OBV(candles)
	default:
		return nil
	}
}

// Latest computes the requested indicator families (or AllNames when names
// is empty) and returns each family's most recent emission, keyed by name.
func Latest(candles []model.Candle, names []Name) map[Name]model.IndicatorValue {
	if len(names) == 0 {
		names = AllNames
	}
	out := make(map[Name]model.IndicatorValue, len(names))
	for _, n := range names {
		series := Series(candles, n)
		if len(series) == 0 {
			continue
		}
		out[n] = series[len(series)-1]
	}
	return out
}

// CompositeLatest computes the composite verdict/confidence over the latest
// emission of every requested indicator family.
func CompositeLatest(candles []model.Candle, names []Name) (model.Verdict, float64) {
	latest := Latest(candles, names)
	values := make([]model.IndicatorValue, 0, len(latest))
	for _, v := range latest {
		values = append(values, v)
	}
	return Composite(values)
}

// ParseName maps a tool-surface indicator string onto a Name.
func ParseName(s string) (Name, bool) {
	for _, n := range AllNames {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}
