package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoedge-mcp/internal/model"
)

func bar(t time.Time, open, high, low, close float64) model.Candle {
	return model.Candle{Time: t, Open: open, High: high, Low: low, Close: close, Volume: 1}
}

func TestPivotsFindsPeakAndTrough(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []model.Candle{
		bar(base, 10, 10, 9, 10),
		bar(base.AddDate(0, 0, 1), 10, 15, 10, 12), // peak on high
		bar(base.AddDate(0, 0, 2), 12, 13, 8, 9),   // trough on low
		bar(base.AddDate(0, 0, 3), 9, 11, 9, 10),
		bar(base.AddDate(0, 0, 4), 10, 10, 9, 10),
	}
	pivots := Pivots(candles)

	peaks := Peaks(pivots)
	require.Len(t, peaks, 1)
	assert.Equal(t, 1, peaks[0].Index)

	troughs := Troughs(pivots)
	require.Len(t, troughs, 1)
	assert.Equal(t, 2, troughs[0].Index)
}

func TestPivotsEmptyOnMonotonicSeries(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var candles []model.Candle
	for i := 0; i < 10; i++ {
		c := float64(100 + i)
		candles = append(candles, bar(base.AddDate(0, 0, i), c, c+1, c-1, c))
	}
	assert.Empty(t, Pivots(candles))
}

func TestHammerDetected(t *testing.T) {
	c := bar(time.Now(), 10, 10.1, 7, 10.1) // high == max(open, close): zero upper shadow
	p, ok := hammer(c)
	require.True(t, ok)
	assert.Equal(t, model.PatternHammer, p.Kind)
	assert.Greater(t, p.Confidence, 0.0)
	assert.LessOrEqual(t, p.Confidence, 1.0)
}

func TestDojiDetected(t *testing.T) {
	c := bar(time.Now(), 100, 110, 90, 100.5)
	p, ok := doji(c)
	require.True(t, ok)
	assert.Equal(t, model.PatternDoji, p.Kind)
}

func TestBullishEngulfing(t *testing.T) {
	base := time.Now()
	prev := bar(base, 100, 101, 95, 96)                // bearish, body [96,100]
	cur := bar(base.Add(time.Hour), 95, 110, 94, 108) // bullish, body [95,108] covers prev
	p, ok := engulfing(prev, cur)
	require.True(t, ok)
	assert.Equal(t, model.PatternBullishEngulfing, p.Kind)
	assert.True(t, p.Bullish)
}

func TestEngulfingRequiresOppositeColors(t *testing.T) {
	base := time.Now()
	prev := bar(base, 95, 101, 94, 100)
	cur := bar(base.Add(time.Hour), 96, 110, 94, 108)
	_, ok := engulfing(prev, cur)
	assert.False(t, ok, "same-direction bars must not be engulfing")
}

func TestDetectRequiresMinCandles(t *testing.T) {
	base := time.Now()
	var candles []model.Candle
	for i := 0; i < MinCandles-1; i++ {
		candles = append(candles, bar(base.AddDate(0, 0, i), 10, 11, 9, 10))
	}
	assert.Nil(t, Detect(candles))
}

func TestDetectSortsByDescendingConfidence(t *testing.T) {
	base := time.Now()
	candles := []model.Candle{
		bar(base, 10, 10, 9, 10),
		bar(base.AddDate(0, 0, 1), 10, 10.1, 7, 10.1), // hammer, confidence 0.6
		bar(base.AddDate(0, 0, 2), 10, 10, 9.9, 10),
		bar(base.AddDate(0, 0, 3), 100, 101, 95, 96),
		bar(base.AddDate(0, 0, 4), 95, 110, 94, 108), // bullish engulfing, confidence 0.7
		bar(base.AddDate(0, 0, 5), 10, 11, 9, 10),
		bar(base.AddDate(0, 0, 6), 10, 11, 9, 10),
		bar(base.AddDate(0, 0, 7), 10, 11, 9, 10),
		bar(base.AddDate(0, 0, 8), 10, 11, 9, 10),
		bar(base.AddDate(0, 0, 9), 10, 11, 9, 10),
	}
	patterns := Detect(candles)
	for i := 1; i < len(patterns); i++ {
		assert.LessOrEqualf(t, patterns[i].Confidence, patterns[i-1].Confidence,
			"patterns not sorted by descending confidence at index %d", i)
	}
}

func TestFilterByConfidence(t *testing.T) {
	patterns := []model.ChartPattern{
		{Kind: model.PatternDoji, Confidence: 0.5},
		{Kind: model.PatternHammer, Confidence: 0.6},
		{Kind: model.PatternBullishEngulfing, Confidence: 0.7},
	}
	got := FilterByConfidence(patterns, 0.6)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Confidence, 0.6)
	}
}
