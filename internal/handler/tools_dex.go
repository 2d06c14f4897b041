package handler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cryptoedge-mcp/internal/errs"
	"cryptoedge-mcp/internal/provider"
)

func (h *Handler) secondary() (*provider.GeckoTerminalSource, error) {
	gt := h.provider.Secondary()
	if gt == nil {
		return nil, errs.New(errs.Unknown, "secondary DEX source unavailable")
	}
	return gt, nil
}

// TokenLiquidityResult is the get_token_liquidity response shape: the pools
// trading the symbol among the network's top pools by 24h volume, aggregated
// into a total.
type TokenLiquidityResult struct {
	Symbol         string               `json:"symbol"`
	Network        string               `json:"network"`
	TotalLiquidity float64              `json:"total_liquidity_usd"`
	PoolCount      int                  `json:"pool_count"`
	TopPools       []provider.PoolInfo `json:"top_pools"`
}

const topPoolsLimit = 5

func (h *Handler) GetTokenLiquidity(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	pools, err := gt.NetworkPools(ctx, network, "h24_volume_usd_desc", 100)
	if err != nil {
		return nil, err
	}

	var matches []provider.PoolInfo
	var total float64
	for _, p := range pools {
		if equalFoldAny(p.BaseSymbol, symbol) || equalFoldAny(p.QuoteSymbol, symbol) {
			matches = append(matches, p)
			total += p.LiquidityUSD
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].LiquidityUSD > matches[j].LiquidityUSD })
	poolCount := len(matches)
	top := matches
	if len(top) > topPoolsLimit {
		top = top[:topPoolsLimit]
	}

	return TokenLiquidityResult{
		Symbol: symbol, Network: network,
		TotalLiquidity: total, PoolCount: poolCount, TopPools: orEmptyPools(top),
	}, nil
}

// SearchTokensResult is the shared shape for both token-search tools.
type SearchTokensResult struct {
	Query  string                `json:"query"`
	Tokens []provider.TokenInfo `json:"tokens"`
}

func (h *Handler) SearchTokensByNetwork(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query, err := stringArg(args, "query", "")
	if err != nil {
		return nil, err
	}
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit", 10)
	if err != nil {
		return nil, err
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	tokens, err := gt.SearchTokens(ctx, query, limit*4)
	if err != nil {
		return nil, err
	}

	filtered := tokens[:0:0]
	for _, t := range tokens {
		if network != "" && t.Network != network {
			continue
		}
		filtered = append(filtered, t)
		if len(filtered) >= limit {
			break
		}
	}

	return SearchTokensResult{Query: query, Tokens: orEmptyTokens(filtered)}, nil
}

func (h *Handler) SearchTokensAdvanced(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query, err := requiredStringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit", 10)
	if err != nil {
		return nil, err
	}
	minLiquidity, err := floatArg(args, "min_liquidity_usd", 0)
	if err != nil {
		return nil, err
	}
	minVolume, err := floatArg(args, "min_volume_usd", 0)
	if err != nil {
		return nil, err
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	tokens, err := gt.SearchTokens(ctx, query, limit*4)
	if err != nil {
		return nil, err
	}

	filtered := tokens[:0:0]
	for _, t := range tokens {
		if t.LiquidityUSD < minLiquidity || t.Volume24hUSD < minVolume {
			continue
		}
		filtered = append(filtered, t)
		if len(filtered) >= limit {
			break
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Volume24hUSD > filtered[j].Volume24hUSD })

	return SearchTokensResult{Query: query, Tokens: orEmptyTokens(filtered)}, nil
}

func orEmptyTokens(t []provider.TokenInfo) []provider.TokenInfo {
	if t == nil {
		return []provider.TokenInfo{}
	}
	return t
}

// DexPriceComparisonResult is the compare_dex_prices response shape.
type DexPriceComparisonResult struct {
	Network      string               `json:"network"`
	Symbol       string               `json:"symbol"`
	Pools        []provider.PoolInfo `json:"pools"`
	BestPrice    float64              `json:"best_price"`
	WorstPrice   float64              `json:"worst_price"`
	AveragePrice float64              `json:"average_price"`
	SpreadPct    float64              `json:"spread_pct"`
}

func (h *Handler) CompareDexPrices(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}
	symbol, err := requiredStringArg(args, "symbol")
	if err != nil {
		return nil, err
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	pools, err := gt.NetworkPools(ctx, network, "h24_volume_usd_desc", 50)
	if err != nil {
		return nil, err
	}

	var matches []provider.PoolInfo
	for _, p := range pools {
		if equalFoldAny(p.BaseSymbol, symbol) || equalFoldAny(p.QuoteSymbol, symbol) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return nil, errs.New(errs.InvalidSymbol, fmt.Sprintf("no pools found for %q on %q", symbol, network))
	}

	lowest, highest, sum := matches[0].PriceUSD, matches[0].PriceUSD, 0.0
	for _, p := range matches {
		if p.PriceUSD < lowest {
			lowest = p.PriceUSD
		}
		if p.PriceUSD > highest {
			highest = p.PriceUSD
		}
		sum += p.PriceUSD
	}
	var spread float64
	if lowest > 0 {
		spread = (highest - lowest) / lowest * 100
	}

	return DexPriceComparisonResult{
		Network: network, Symbol: symbol, Pools: matches,
		BestPrice: lowest, WorstPrice: highest, AveragePrice: sum / float64(len(matches)), SpreadPct: spread,
	}, nil
}

func equalFoldAny(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// NetworkPoolsResult is the get_network_pools response shape.
type NetworkPoolsResult struct {
	Network string               `json:"network"`
	Pools   []provider.PoolInfo `json:"pools"`
}

func (h *Handler) GetNetworkPools(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}
	sortBy, err := stringArg(args, "sort_by", "")
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit", 20)
	if err != nil {
		return nil, err
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	pools, err := gt.NetworkPools(ctx, network, sortBy, limit)
	if err != nil {
		return nil, err
	}
	return NetworkPoolsResult{Network: network, Pools: orEmptyPools(pools)}, nil
}

func orEmptyPools(p []provider.PoolInfo) []provider.PoolInfo {
	if p == nil {
		return []provider.PoolInfo{}
	}
	return p
}

// DexInfoResult is the get_dex_info response shape.
type DexInfoResult struct {
	Network string              `json:"network"`
	DEXes   []provider.DEXInfo `json:"dexes"`
}

func (h *Handler) GetDexInfo(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}
	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	dexes, err := gt.DEXList(ctx, network)
	if err != nil {
		return nil, err
	}
	return DexInfoResult{Network: network, DEXes: dexes}, nil
}

// PoolAnalyticsResult is the get_pool_analytics response shape.
type PoolAnalyticsResult struct {
	Pool         provider.PoolInfo `json:"pool"`
	PriceToFDV   float64            `json:"price_to_liquidity_ratio"`
	VolumeChurn  float64            `json:"volume_to_liquidity_ratio"`
}

func (h *Handler) GetPoolAnalytics(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}
	address, err := requiredStringArg(args, "pool_address")
	if err != nil {
		return nil, err
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	pool, err := gt.PoolDetail(ctx, network, address)
	if err != nil {
		return nil, err
	}

	var priceToLiq, volChurn float64
	if pool.LiquidityUSD > 0 {
		priceToLiq = pool.PriceUSD / pool.LiquidityUSD
		volChurn = pool.Volume24hUSD / pool.LiquidityUSD
	}

	return PoolAnalyticsResult{Pool: pool, PriceToFDV: priceToLiq, VolumeChurn: volChurn}, nil
}

// PoolOHLCVResult is the get_pool_ohlcv response shape.
type PoolOHLCVResult struct {
	Network    string                       `json:"network"`
	Pool       string                       `json:"pool_address"`
	Bars       []provider.PoolOHLCVPoint `json:"bars"`
	HighestHigh float64                     `json:"highest_high"`
	LowestLow   float64                     `json:"lowest_low"`
	TotalVolume float64                     `json:"total_volume"`
}

const dateLayout = "2006-01-02"

func (h *Handler) GetPoolOHLCV(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	network, err := requiredStringArg(args, "network")
	if err != nil {
		return nil, err
	}
	address, err := requiredStringArg(args, "pool_address")
	if err != nil {
		return nil, err
	}
	startStr, err := requiredStringArg(args, "start_date")
	if err != nil {
		return nil, err
	}
	endStr, err := stringArg(args, "end_date", "")
	if err != nil {
		return nil, err
	}
	interval, err := stringArg(args, "interval", "day")
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return nil, errs.Wrap(errs.DataParsing, "parse start_date", err)
	}
	end := time.Now()
	if endStr != "" {
		end, err = time.Parse(dateLayout, endStr)
		if err != nil {
			return nil, errs.Wrap(errs.DataParsing, "parse end_date", err)
		}
	}

	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	bars, err := gt.PoolOHLCV(ctx, network, address, start, end, interval)
	if err != nil {
		return nil, err
	}

	result := PoolOHLCVResult{Network: network, Pool: address, Bars: orEmptyBars(bars)}
	if len(bars) > 0 {
		result.HighestHigh, result.LowestLow = bars[0].High, bars[0].Low
		for _, b := range bars {
			if b.High > result.HighestHigh {
				result.HighestHigh = b.High
			}
			if b.Low < result.LowestLow {
				result.LowestLow = b.Low
			}
			result.TotalVolume += b.Volume
		}
	}
	return result, nil
}

func orEmptyBars(b []provider.PoolOHLCVPoint) []provider.PoolOHLCVPoint {
	if b == nil {
		return []provider.PoolOHLCVPoint{}
	}
	return b
}

// AvailableNetworksResult is the get_available_networks response shape.
type AvailableNetworksResult struct {
	Networks []provider.NetworkInfo `json:"networks"`
}

func (h *Handler) GetAvailableNetworks(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	gt, err := h.secondary()
	if err != nil {
		return nil, err
	}
	nets, err := gt.AvailableNetworks(ctx)
	if err != nil {
		return nil, err
	}
	return AvailableNetworksResult{Networks: nets}, nil
}
