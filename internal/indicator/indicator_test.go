package indicator

import (
	"testing"
	"time"

	"cryptoedge-mcp/internal/model"
)

// flatCandles builds n daily candles with a constant close, used where the
// exact shape of price action doesn't matter, only bar count.
func flatCandles(n int, close float64) []model.Candle {
	out := make([]model.Candle, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = model.Candle{
			Time: base.AddDate(0, 0, i), Open: close, High: close, Low: close, Close: close, Volume: 100,
		}
	}
	return out
}

// risingCandles builds n daily candles with a strictly increasing close.
func risingCandles(n int, start, step float64) []model.Candle {
	out := make([]model.Candle, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		c := start + float64(i)*step
		out[i] = model.Candle{
			Time: base.AddDate(0, 0, i), Open: c - step/2, High: c + step, Low: c - step, Close: c, Volume: 100,
		}
	}
	return out
}

func TestSMAWarmup(t *testing.T) {
	candles := flatCandles(25, 10)
	series := SMA(candles, 20)
	if len(series) != len(candles)-20+1 {
		t.Fatalf("SMA warm-up length = %d, want %d", len(series), len(candles)-20+1)
	}
	for _, v := range series {
		if v.Value != 10 {
			t.Errorf("SMA of a flat series = %v, want 10", v.Value)
		}
	}
}

func TestSMATooFewBarsIsEmpty(t *testing.T) {
	if got := SMA(flatCandles(5, 10), 20); got != nil {
		t.Errorf("SMA with insufficient bars = %v, want nil", got)
	}
}

func TestRSIAllGainsIsOneHundred(t *testing.T) {
	candles := risingCandles(20, 100, 1)
	series := RSI(candles, 14)
	if len(series) == 0 {
		t.Fatal("expected RSI emissions")
	}
	for _, v := range series {
		if v.Value != 100 {
			t.Errorf("RSI of a strictly rising series = %v, want 100", v.Value)
		}
		if v.Verdict != model.Sell {
			t.Errorf("RSI=100 verdict = %v, want Sell", v.Verdict)
		}
	}
}

func TestRSIFlatSeriesIsOneHundred(t *testing.T) {
	// no gains and no losses: avgLoss == 0 falls into the documented RSI=100
	// branch rather than dividing by zero.
	series := RSI(flatCandles(20, 10), 14)
	if len(series) == 0 {
		t.Fatal("expected RSI emissions")
	}
	if series[0].Value != 100 {
		t.Errorf("RSI of a flat series = %v, want 100", series[0].Value)
	}
}

func TestLatestFiltersByRequestedNames(t *testing.T) {
	candles := risingCandles(60, 100, 1)
	latest := Latest(candles, []Name{NameRSI})
	if len(latest) != 1 {
		t.Fatalf("Latest with one requested name returned %d entries", len(latest))
	}
	if _, ok := latest[NameRSI]; !ok {
		t.Error("expected an RSI entry")
	}
}

func TestLatestDefaultsToAllNames(t *testing.T) {
	candles := risingCandles(250, 100, 1)
	latest := Latest(candles, nil)
	for _, n := range AllNames {
		if _, ok := latest[n]; !ok {
			t.Errorf("Latest(nil) missing indicator %q", n)
		}
	}
}

func TestParseName(t *testing.T) {
	if n, ok := ParseName("rsi"); !ok || n != NameRSI {
		t.Errorf("ParseName(rsi) = (%v, %v), want (%v, true)", n, ok, NameRSI)
	}
	if _, ok := ParseName("not-a-real-indicator"); ok {
		t.Error("ParseName should reject unrecognized names")
	}
}
