package handler

import (
	"strings"
	"testing"

	"cryptoedge-mcp/internal/indicator"
	"cryptoedge-mcp/internal/level"
	"cryptoedge-mcp/internal/model"
)

func TestParseTimeframeArgDefaultsToDaily(t *testing.T) {
	tf, err := parseTimeframeArg(map[string]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tf != model.TimeframeDaily {
		t.Errorf("parseTimeframeArg default = %v, want %v", tf, model.TimeframeDaily)
	}
}

func TestParseTimeframeArgUnrecognized(t *testing.T) {
	if _, err := parseTimeframeArg(map[string]interface{}{"timeframe": "fortnight"}); err == nil {
		t.Error("expected an error for an unrecognized timeframe")
	}
}

func TestParseRiskArgDefaultsToModerate(t *testing.T) {
	risk, err := parseRiskArg(map[string]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risk != model.RiskModerate {
		t.Errorf("parseRiskArg default = %v, want %v", risk, model.RiskModerate)
	}
}

func TestWithinPct(t *testing.T) {
	if !withinPct(100, 102, 0.03) {
		t.Error("102 should be within 3% of 100")
	}
	if withinPct(100, 110, 0.03) {
		t.Error("110 should not be within 3% of 100")
	}
	if withinPct(0, 10, 0.03) {
		t.Error("withinPct against a zero reference must report false, not divide by zero")
	}
}

func TestRecommendBuy(t *testing.T) {
	stop := 95.0
	target := 110.0
	sig := model.Signal{Primary: model.Buy, Entry: 100, Stop: &stop, TakeProfit: &target}
	out := recommend(sig, analysisBundle{})
	if len(out) != 3 {
		t.Fatalf("recommend(Buy) returned %d lines, want 3 (entry, stop, target)", len(out))
	}
	if !strings.Contains(out[0], "long") {
		t.Errorf("first recommendation %q should mention a long entry", out[0])
	}
}

func TestRecommendHold(t *testing.T) {
	sig := model.Signal{Primary: model.Hold}
	out := recommend(sig, analysisBundle{})
	if len(out) != 1 {
		t.Fatalf("recommend(Hold) returned %d lines, want 1", len(out))
	}
}

func TestSummarizeIncludesRSIRegimeAndVolume(t *testing.T) {
	bundle := analysisBundle{
		current:   100,
		volume24h: 1234567,
		latest: map[indicator.Name]model.IndicatorValue{
			indicator.NameRSI: {Name: "RSI_14", Value: 75},
		},
		levels: level.Result{Levels: []model.Level{{Kind: model.LevelResistance, Price: 101}}},
	}
	sig := model.Signal{Primary: model.Sell, Confidence: 0.8}

	summary := summarize("BTC", model.TimeframeDaily, sig, bundle)

	if !strings.Contains(summary, "overbought") {
		t.Errorf("summary %q should flag the overbought RSI regime", summary)
	}
	if !strings.Contains(summary, "resistance") {
		t.Errorf("summary %q should mention the nearby resistance level", summary)
	}
	if !strings.Contains(summary, "1,234,567") {
		t.Errorf("summary %q should render the 24h volume with thousands separators", summary)
	}
}

func TestSummarizeOversoldRSI(t *testing.T) {
	bundle := analysisBundle{
		current: 100,
		latest: map[indicator.Name]model.IndicatorValue{
			indicator.NameRSI: {Name: "RSI_14", Value: 20},
		},
	}
	sig := model.Signal{Primary: model.Buy, Confidence: 0.7}
	summary := summarize("ETH", model.TimeframeDaily, sig, bundle)
	if !strings.Contains(summary, "oversold") {
		t.Errorf("summary %q should flag the oversold RSI regime", summary)
	}
}
