// Package handler implements the thin per-tool orchestration that maps
// each JSON-RPC tool call onto one or more analytics pipelines, owning the
// full-analysis result cache.
package handler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptoedge-mcp/internal/indicator"
	"cryptoedge-mcp/internal/level"
	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/pattern"
	"cryptoedge-mcp/internal/provider"
	"cryptoedge-mcp/internal/recorder"
)

const (
	defaultPeriods        = 100
	fullAnalysisCacheTTL  = 120 * time.Second
)

// Handler owns the full-analysis cache (keyed by symbol+timeframe+risk);
// every other cache lives in the provider and is never touched here.
type Handler struct {
	provider *provider.Provider
	recorder recorder.Recorder

	mu    sync.Mutex
	cache map[string]cachedAnalysis
}

type cachedAnalysis struct {
	result   FullAnalysisResult
	storedAt time.Time
}

func New(p *provider.Provider, r recorder.Recorder) *Handler {
	return &Handler{provider: p, recorder: r, cache: make(map[string]cachedAnalysis)}
}

// Call dispatches name to the matching tool method and renders the result
// (or a failure) as the map the JSON-RPC transport will pretty-print.
// Tool failures are never protocol-level errors, per §7: a failed tool
// call still succeeds at the JSON-RPC layer with an {"error": ...} body.
func (h *Handler) Call(ctx context.Context, name string, args map[string]interface{}) map[string]interface{} {
	result, err := h.dispatch(ctx, name, args)
	if err != nil {
		log.Printf("[WARN] tool %s failed: %v", name, err)
		return map[string]interface{}{"error": err.Error()}
	}
	return toMap(result)
}

func (h *Handler) dispatch(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	switch name {
	case "get_crypto_price":
		return h.GetCryptoPrice(ctx, args)
	case "get_technical_indicators":
		return h.GetTechnicalIndicators(ctx, args)
	case "detect_chart_patterns":
		return h.DetectChartPatterns(ctx, args)
	case "get_support_resistance":
		return h.GetSupportResistance(ctx, args)
	case "get_trading_signals":
		return h.GetTradingSignals(ctx, args)
	case "get_full_analysis":
		return h.GetFullAnalysis(ctx, args)
	case "multi_timeframe_analysis":
		return h.MultiTimeframeAnalysis(ctx, args)
	case "get_token_liquidity":
		return h.GetTokenLiquidity(ctx, args)
	case "search_tokens_by_network":
		return h.SearchTokensByNetwork(ctx, args)
	case "compare_dex_prices":
		return h.CompareDexPrices(ctx, args)
	case "get_network_pools":
		return h.GetNetworkPools(ctx, args)
	case "get_dex_info":
		return h.GetDexInfo(ctx, args)
	case "get_pool_analytics":
		return h.GetPoolAnalytics(ctx, args)
	case "get_pool_ohlcv":
		return h.GetPoolOHLCV(ctx, args)
	case "get_available_networks":
		return h.GetAvailableNetworks(ctx, args)
	case "search_tokens_advanced":
		return h.SearchTokensAdvanced(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

// analysisBundle is the shared indicator/pattern/level computation behind
// get_trading_signals, get_full_analysis, and multi_timeframe_analysis.
type analysisBundle struct {
	candles    []model.Candle
	composite  model.Verdict
	confidence float64
	latest     map[indicator.Name]model.IndicatorValue
	patterns   []model.ChartPattern
	levels     level.Result
	current    float64
	volume24h  float64
}

func (h *Handler) analyze(ctx context.Context, symbol string, tf model.Timeframe) (analysisBundle, error) {
	candles, err := h.provider.Candles(ctx, symbol, tf, defaultPeriods)
	if err != nil {
		return analysisBundle{}, err
	}
	snap, err := h.provider.Price(ctx, symbol)
	if err != nil {
		return analysisBundle{}, err
	}

	var latest map[indicator.Name]model.IndicatorValue
	var composite model.Verdict
	var confidence float64
	var patterns []model.ChartPattern
	var levels level.Result

	g, gctx := errgroup.WithContext(ctx)
	_ = gctx
	g.Go(func() error {
		latest = indicator.Latest(candles, nil)
		composite, confidence = indicator.CompositeLatest(candles, nil)
		return nil
	})
	g.Go(func() error {
		patterns = pattern.Detect(candles)
		return nil
	})
	g.Go(func() error {
		levels = level.Analyze(candles, snap.Price, time.Now())
		return nil
	})
	if err := g.Wait(); err != nil {
		return analysisBundle{}, err
	}

	return analysisBundle{
		candles: candles, composite: composite, confidence: confidence,
		latest: latest, patterns: patterns, levels: levels,
		current: snap.Price, volume24h: snap.Volume24h,
	}, nil
}

func latestMapByName(latest map[indicator.Name]model.IndicatorValue) map[string]model.IndicatorValue {
	out := make(map[string]model.IndicatorValue, len(latest))
	for k, v := range latest {
		out[string(k)] = v
	}
	return out
}
