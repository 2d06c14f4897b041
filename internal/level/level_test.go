package level

import (
	"testing"
	"time"

	"cryptoedge-mcp/internal/model"
)

func bar(t time.Time, open, high, low, close float64) model.Candle {
	return model.Candle{Time: t, Open: open, High: high, Low: low, Close: close, Volume: 1}
}

func TestConsolidateMergesWithinEpsilon(t *testing.T) {
	now := time.Now()
	levels := []model.Level{
		{Price: 100, Strength: 0.4, Touches: 1, LastTouch: now, Active: true},
		{Price: 100.5, Strength: 0.5, Touches: 2, LastTouch: now.Add(time.Hour), Active: false},
		{Price: 500, Strength: 0.3, Touches: 1, LastTouch: now},
	}
	merged := Consolidate(levels)
	if len(merged) != 2 {
		t.Fatalf("Consolidate merged into %d levels, want 2", len(merged))
	}
	first := merged[0]
	if first.Touches != 3 {
		t.Errorf("merged touches = %d, want 3 (sum of 1+2)", first.Touches)
	}
	if first.Strength != 0.6 {
		t.Errorf("merged strength = %v, want 0.6 (max 0.5 + 1*0.1)", first.Strength)
	}
	if !first.Active {
		t.Error("merged level must be active if any member was active")
	}
	if !first.LastTouch.Equal(now.Add(time.Hour)) {
		t.Error("merged LastTouch must be the most recent member's")
	}
}

func TestConsolidateLeavesDistantLevelsSeparate(t *testing.T) {
	levels := []model.Level{{Price: 100, Strength: 0.5}, {Price: 200, Strength: 0.5}}
	if got := Consolidate(levels); len(got) != 2 {
		t.Errorf("Consolidate of distant levels returned %d, want 2 unmerged", len(got))
	}
}

func TestConsolidateEmptyInput(t *testing.T) {
	if got := Consolidate(nil); got != nil {
		t.Errorf("Consolidate(nil) = %+v, want nil", got)
	}
}

func rangedCandles() []model.Candle {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Candle{
		bar(base, 100, 100, 100, 100),
		bar(base.AddDate(0, 0, 1), 100, 150, 100, 140),
		bar(base.AddDate(0, 0, 2), 140, 140, 50, 60),
		bar(base.AddDate(0, 0, 3), 60, 160, 50, 150),
	}
}

func TestFibonacciSpansSeriesRange(t *testing.T) {
	candles := rangedCandles()
	levels := Fibonacci(candles, 100, time.Now())
	if len(levels) == 0 {
		t.Fatal("expected at least the 0%% and 100%% retracement levels")
	}
	var sawLow, sawHigh bool
	for _, l := range levels {
		if l.Kind != model.LevelFibonacci {
			t.Errorf("Kind = %v, want %v", l.Kind, model.LevelFibonacci)
		}
		if l.Price == 50 {
			sawLow = true
		}
		if l.Price == 160 {
			sawHigh = true
		}
	}
	if !sawLow || !sawHigh {
		t.Errorf("expected retracement levels anchored at the series low (50) and high (160), got %+v", levels)
	}
}

func TestFibonacciEmptySeries(t *testing.T) {
	if got := Fibonacci(nil, 100, time.Now()); got != nil {
		t.Errorf("Fibonacci(nil) = %+v, want nil", got)
	}
}

func TestPsychologicalStepByMagnitude(t *testing.T) {
	cases := []struct {
		price float64
		step  float64
	}{
		{0.5, 0.1},
		{5, 1},
		{50, 10},
		{500, 100},
		{5000, 1000},
		{50000, 10000},
	}
	for _, c := range cases {
		if got := psychStep(c.price); got != c.step {
			t.Errorf("psychStep(%v) = %v, want %v", c.price, got, c.step)
		}
	}
}

func TestPsychologicalSplitsSupportAndResistanceAroundCurrent(t *testing.T) {
	candles := rangedCandles()
	levels := Psychological(candles, 100, time.Now())
	for _, l := range levels {
		if l.Price > 100 && l.Kind != model.LevelResistance {
			t.Errorf("level above current (%v) has kind %v, want Resistance", l.Price, l.Kind)
		}
		if l.Price <= 100 && l.Kind != model.LevelSupport {
			t.Errorf("level at/below current (%v) has kind %v, want Support", l.Price, l.Kind)
		}
	}
}

func TestVolumeProfileRequiresAtLeastTwoTouchesPerBin(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var candles []model.Candle
	// All 50 candles land in distinct bins (range 0-491, width ~9.82) except
	// two that collide into the same bin, which alone should survive.
	for i := 0; i < 50; i++ {
		p := float64(i) * 10
		candles = append(candles, bar(base.AddDate(0, 0, i), p, p+1, p, p))
	}
	candles = append(candles, bar(base.AddDate(0, 0, 51), 5, 6, 5, 5)) // second touch in bin 0
	levels := VolumeProfile(candles, 100, time.Now())
	for _, l := range levels {
		if l.Touches < 2 {
			t.Errorf("level %+v survived with fewer than 2 touches", l)
		}
	}
}

func TestVolumeProfileDegenerateRangeIsEmpty(t *testing.T) {
	flat := []model.Candle{bar(time.Now(), 10, 10, 10, 10), bar(time.Now(), 10, 10, 10, 10)}
	if got := VolumeProfile(flat, 10, time.Now()); got != nil {
		t.Errorf("VolumeProfile on a zero-range series = %+v, want nil", got)
	}
}

func TestTrendLineValueAt(t *testing.T) {
	tl := model.TrendLine{Slope: 2, Intercept: 10}
	if got := tl.ValueAt(5); got != 20 {
		t.Errorf("ValueAt(5) = %v, want 20", got)
	}
}

func TestTrendLinesRequireMinimumSupport(t *testing.T) {
	// Two pivots alone can always form a line; TrendLines must reject it
	// for want of a third pivot lying on it.
	pivots := []model.PivotPoint{
		{Index: 0, Price: 100, Kind: model.PivotPeak},
		{Index: 10, Price: 120, Kind: model.PivotPeak},
	}
	if got := TrendLines(pivots); len(got) != 0 {
		t.Errorf("TrendLines with only 2 pivots = %+v, want none (below minimum support)", got)
	}
}

func TestTrendLinesAcceptsThreeCollinearPivots(t *testing.T) {
	pivots := []model.PivotPoint{
		{Index: 0, Price: 100, Kind: model.PivotPeak},
		{Index: 10, Price: 110, Kind: model.PivotPeak},
		{Index: 20, Price: 120, Kind: model.PivotPeak},
	}
	lines := TrendLines(pivots)
	if len(lines) == 0 {
		t.Fatal("expected at least one resistance trend line through 3 collinear peaks")
	}
	for _, l := range lines {
		if l.Kind != model.LevelResistance {
			t.Errorf("Kind = %v, want %v", l.Kind, model.LevelResistance)
		}
	}
}
