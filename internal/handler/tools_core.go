package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptoedge-mcp/internal/indicator"
	"cryptoedge-mcp/internal/level"
	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/pattern"
	"cryptoedge-mcp/internal/recorder"
	"cryptoedge-mcp/internal/signal"
)

// GetCryptoPrice fetches the current ticker for a symbol.
func (h *Handler) GetCryptoPrice(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	return h.provider.Price(ctx, symbol)
}

// TechnicalIndicatorsResult is the get_technical_indicators response shape.
type TechnicalIndicatorsResult struct {
	Symbol     string                            `json:"symbol"`
	Timeframe  model.Timeframe                   `json:"timeframe"`
	DataPoints int                                `json:"data_points"`
	Indicators map[string]model.IndicatorValue    `json:"indicators"`
}

func (h *Handler) GetTechnicalIndicators(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	tf, err := parseTimeframeArg(args)
	if err != nil {
		return nil, err
	}
	names, err := stringSliceArg(args, "indicators")
	if err != nil {
		return nil, err
	}

	candles, err := h.provider.Candles(ctx, symbol, tf, defaultPeriods)
	if err != nil {
		return nil, err
	}

	var filter []indicator.Name
	for _, n := range names {
		if parsed, ok := indicator.ParseName(n); ok {
			filter = append(filter, parsed)
		}
	}

	latest := indicator.Latest(candles, filter)
	return TechnicalIndicatorsResult{
		Symbol: symbol, Timeframe: tf, DataPoints: len(candles),
		Indicators: latestMapByName(latest),
	}, nil
}

// ChartPatternsResult is the detect_chart_patterns response shape.
type ChartPatternsResult struct {
	Symbol    string              `json:"symbol"`
	Timeframe model.Timeframe     `json:"timeframe"`
	Patterns  []model.ChartPattern `json:"patterns"`
}

func (h *Handler) DetectChartPatterns(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	tf, err := parseTimeframeArg(args)
	if err != nil {
		return nil, err
	}

	candles, err := h.provider.Candles(ctx, symbol, tf, defaultPeriods)
	if err != nil {
		return nil, err
	}

	return ChartPatternsResult{Symbol: symbol, Timeframe: tf, Patterns: patternsOrEmpty(candles)}, nil
}

func patternsOrEmpty(candles []model.Candle) []model.ChartPattern {
	return orEmptyPatterns(pattern.Detect(candles))
}

func orEmptyPatterns(patterns []model.ChartPattern) []model.ChartPattern {
	if patterns == nil {
		return []model.ChartPattern{}
	}
	return patterns
}

// SupportResistanceResult is the get_support_resistance response shape.
type SupportResistanceResult struct {
	Symbol            string            `json:"symbol"`
	Timeframe         model.Timeframe   `json:"timeframe"`
	Support           []model.Level     `json:"support"`
	Resistance        []model.Level     `json:"resistance"`
	NearestSupport    *model.Level      `json:"nearest_support,omitempty"`
	NearestResistance *model.Level      `json:"nearest_resistance,omitempty"`
	TrendLines        []model.TrendLine `json:"trend_lines"`
}

func (h *Handler) GetSupportResistance(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	tf, err := parseTimeframeArg(args)
	if err != nil {
		return nil, err
	}

	candles, err := h.provider.Candles(ctx, symbol, tf, defaultPeriods)
	if err != nil {
		return nil, err
	}
	snap, err := h.provider.Price(ctx, symbol)
	if err != nil {
		return nil, err
	}

	result := level.Analyze(candles, snap.Price, time.Now())
	var support, resistance []model.Level
	for _, l := range result.Levels {
		if l.Kind == model.LevelSupport {
			support = append(support, l)
		} else {
			resistance = append(resistance, l)
		}
	}

	return SupportResistanceResult{
		Symbol: symbol, Timeframe: tf,
		Support: orEmptyLevels(support), Resistance: orEmptyLevels(resistance),
		NearestSupport:    nearestLevel(support, snap.Price, true),
		NearestResistance: nearestLevel(resistance, snap.Price, false),
		TrendLines:        result.TrendLines,
	}, nil
}

func orEmptyLevels(ls []model.Level) []model.Level {
	if ls == nil {
		return []model.Level{}
	}
	return ls
}

// nearestLevel finds the closest level to current, restricted to below
// (below=true, for support) or above (below=false, for resistance).
func nearestLevel(levels []model.Level, current float64, below bool) *model.Level {
	var best *model.Level
	bestDist := -1.0
	for i := range levels {
		l := levels[i]
		if below && l.Price > current {
			continue
		}
		if !below && l.Price < current {
			continue
		}
		dist := current - l.Price
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			best, bestDist = &levels[i], dist
		}
	}
	return best
}

// TradingSignalsResult is the get_trading_signals response shape.
type TradingSignalsResult struct {
	Symbol    string          `json:"symbol"`
	Timeframe model.Timeframe `json:"timeframe"`
	Risk      model.RiskLevel `json:"risk_level"`
	Signal    model.Signal    `json:"signal"`
}

func (h *Handler) GetTradingSignals(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	tf, err := parseTimeframeArg(args)
	if err != nil {
		return nil, err
	}
	risk, err := parseRiskArg(args)
	if err != nil {
		return nil, err
	}

	bundle, err := h.analyze(ctx, symbol, tf)
	if err != nil {
		return nil, err
	}

	sig := signal.Aggregate(bundle.current, bundle.composite, bundle.patterns, bundle.levels.Levels, risk)
	h.recordFireAndForget("get_trading_signals", symbol, tf, risk, sig)

	return TradingSignalsResult{Symbol: symbol, Timeframe: tf, Risk: risk, Signal: sig}, nil
}

// FullAnalysisResult is the get_full_analysis response shape.
type FullAnalysisResult struct {
	Symbol          string                          `json:"symbol"`
	Timeframe       model.Timeframe                 `json:"timeframe"`
	Risk            model.RiskLevel                 `json:"risk_level"`
	Indicators      map[string]model.IndicatorValue `json:"indicators"`
	Patterns        []model.ChartPattern            `json:"patterns"`
	Levels          []model.Level                   `json:"levels"`
	TrendLines      []model.TrendLine               `json:"trend_lines"`
	Signal          model.Signal                    `json:"signal"`
	Summary         string                          `json:"summary"`
	Recommendations []string                        `json:"recommendations"`
}

func (h *Handler) GetFullAnalysis(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	tf, err := parseTimeframeArg(args)
	if err != nil {
		return nil, err
	}
	risk, err := parseRiskArg(args)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:%s:%s", strings.ToUpper(symbol), tf, risk)
	h.mu.Lock()
	if cached, ok := h.cache[key]; ok && time.Since(cached.storedAt) < fullAnalysisCacheTTL {
		h.mu.Unlock()
		return cached.result, nil
	}
	h.mu.Unlock()

	bundle, err := h.analyze(ctx, symbol, tf)
	if err != nil {
		return nil, err
	}

	sig := signal.Aggregate(bundle.current, bundle.composite, bundle.patterns, bundle.levels.Levels, risk)
	result := FullAnalysisResult{
		Symbol: symbol, Timeframe: tf, Risk: risk,
		Indicators: latestMapByName(bundle.latest),
		Patterns:   orEmptyPatterns(bundle.patterns),
		Levels:     orEmptyLevels(bundle.levels.Levels),
		TrendLines: bundle.levels.TrendLines,
		Signal:     sig,
	}
	result.Summary = summarize(symbol, tf, sig, bundle)
	result.Recommendations = recommend(sig, bundle)

	h.mu.Lock()
	h.cache[key] = cachedAnalysis{result: result, storedAt: time.Now()}
	h.mu.Unlock()

	h.recordFireAndForget("get_full_analysis", symbol, tf, risk, sig)
	return result, nil
}

// TimeframeBrief is one timeframe's slice of a multi_timeframe_analysis call.
type TimeframeBrief struct {
	Trend         string                          `json:"trend"`
	OverallSignal model.Verdict                   `json:"overall_signal"`
	Confidence    float64                         `json:"confidence"`
	Indicators    map[string]model.IndicatorValue `json:"indicators"`
	Patterns      []model.ChartPattern            `json:"patterns"`
	Levels        []model.Level                   `json:"levels"`
}

// MultiTimeframeResult is the multi_timeframe_analysis response shape.
type MultiTimeframeResult struct {
	Symbol      string                     `json:"symbol"`
	Timeframes  map[string]TimeframeBrief `json:"timeframes"`
	Summary     string                     `json:"summary"`
}

func (h *Handler) MultiTimeframeAnalysis(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}

	briefs := make(map[string]TimeframeBrief, len(model.AllTimeframes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, tf := range model.AllTimeframes {
		tf := tf
		g.Go(func() error {
			bundle, err := h.analyze(gctx, symbol, tf)
			if err != nil {
				// Per §7, a failed timeframe is simply omitted, never fails the call.
				return nil
			}
			mu.Lock()
			briefs[string(tf)] = TimeframeBrief{
				Trend:         trendLabel(bundle.composite),
				OverallSignal: bundle.composite,
				Confidence:    bundle.confidence,
				Indicators:    latestMapByName(bundle.latest),
				Patterns:      orEmptyPatterns(bundle.patterns),
				Levels:        orEmptyLevels(bundle.levels.Levels),
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return MultiTimeframeResult{
		Symbol:     symbol,
		Timeframes: briefs,
		Summary:    multiTimeframeSummary(symbol, briefs),
	}, nil
}

func trendLabel(v model.Verdict) string {
	switch {
	case v.IsBuy():
		return "bullish"
	case v.IsSell():
		return "bearish"
	default:
		return "neutral"
	}
}

func multiTimeframeSummary(symbol string, briefs map[string]TimeframeBrief) string {
	if len(briefs) == 0 {
		return fmt.Sprintf("%s: no timeframe could be analyzed.", symbol)
	}
	keys := make([]string, 0, len(briefs))
	for k := range briefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		b := briefs[k]
		parts = append(parts, fmt.Sprintf("%s %s (%.0f%%)", k, b.Trend, b.Confidence*100))
	}
	return fmt.Sprintf("%s across timeframes: %s.", symbol, strings.Join(parts, ", "))
}

func (h *Handler) recordFireAndForget(tool, symbol string, tf model.Timeframe, risk model.RiskLevel, sig model.Signal) {
	if h.recorder == nil {
		return
	}
	go func() {
		err := h.recorder.RecordAnalysis(&recorder.AnalysisAuditRecord{
			Tool: tool, Symbol: strings.ToUpper(symbol), Timeframe: string(tf), Risk: string(risk),
			Verdict: string(sig.Primary), Confidence: sig.Confidence, Timestamp: time.Now(),
		})
		if err != nil {
			logRecorderFailure(tool, err)
		}
	}()
}
