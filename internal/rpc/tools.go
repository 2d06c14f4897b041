package rpc

// ToolSpec describes one callable tool for the tools/list response.
type ToolSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func schema(properties map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func strProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func numProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func strArrayProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": desc}
}

// toolCatalog is the static tools/list payload, one entry per dispatchable
// tool in internal/handler.
var toolCatalog = []ToolSpec{
	{
		Name:        "get_crypto_price",
		Description: "Fetch the current price snapshot for a cryptocurrency symbol.",
		InputSchema: schema(map[string]interface{}{
			"symbol": strProp("Ticker symbol, e.g. BTC"),
		}, "symbol"),
	},
	{
		Name:        "get_technical_indicators",
		Description: "Compute the latest technical indicator values for a symbol.",
		InputSchema: schema(map[string]interface{}{
			"symbol":     strProp("Ticker symbol"),
			"timeframe":  strProp("4h, daily, weekly, or monthly"),
			"indicators": strArrayProp("Indicator names to restrict to; all computed when omitted"),
		}, "symbol"),
	},
	{
		Name:        "detect_chart_patterns",
		Description: "Detect chart and candlestick patterns in a symbol's recent history.",
		InputSchema: schema(map[string]interface{}{
			"symbol":    strProp("Ticker symbol"),
			"timeframe": strProp("4h, daily, weekly, or monthly"),
		}, "symbol"),
	},
	{
		Name:        "get_support_resistance",
		Description: "Compute support/resistance levels and dynamic trend lines for a symbol.",
		InputSchema: schema(map[string]interface{}{
			"symbol":    strProp("Ticker symbol"),
			"timeframe": strProp("4h, daily, weekly, or monthly"),
		}, "symbol"),
	},
	{
		Name:        "get_trading_signals",
		Description: "Aggregate indicators, patterns, and levels into a buy/sell/hold signal.",
		InputSchema: schema(map[string]interface{}{
			"symbol":     strProp("Ticker symbol"),
			"timeframe":  strProp("4h, daily, weekly, or monthly"),
			"risk_level": strProp("conservative, moderate, or aggressive"),
		}, "symbol"),
	},
	{
		Name:        "get_full_analysis",
		Description: "Combined indicators, patterns, levels, signal, summary, and recommendations.",
		InputSchema: schema(map[string]interface{}{
			"symbol":     strProp("Ticker symbol"),
			"timeframe":  strProp("4h, daily, weekly, or monthly"),
			"risk_level": strProp("conservative, moderate, or aggressive"),
		}, "symbol"),
	},
	{
		Name:        "multi_timeframe_analysis",
		Description: "Run the full analysis pipeline across every timeframe at once.",
		InputSchema: schema(map[string]interface{}{
			"symbol": strProp("Ticker symbol"),
		}, "symbol"),
	},
	{
		Name:        "get_token_liquidity",
		Description: "Aggregate a token's liquidity across a network's top pools by 24h volume.",
		InputSchema: schema(map[string]interface{}{
			"symbol":  strProp("Token symbol"),
			"network": strProp("DEX network id, e.g. eth"),
		}, "symbol", "network"),
	},
	{
		Name:        "search_tokens_by_network",
		Description: "Search DEX tokens on a network, optionally matching a name/symbol query.",
		InputSchema: schema(map[string]interface{}{
			"network": strProp("DEX network id"),
			"query":   strProp("Search text"),
			"limit":   numProp("Maximum results"),
		}, "network"),
	},
	{
		Name:        "compare_dex_prices",
		Description: "Compare a token's price across a network's top DEX pools by 24h volume.",
		InputSchema: schema(map[string]interface{}{
			"symbol":  strProp("Token symbol"),
			"network": strProp("DEX network id"),
		}, "symbol", "network"),
	},
	{
		Name:        "get_network_pools",
		Description: "List top liquidity pools on a network.",
		InputSchema: schema(map[string]interface{}{
			"network": strProp("DEX network id"),
			"sort_by": strProp("Upstream sort key, e.g. h24_volume_usd_desc"),
			"limit":   numProp("Maximum results"),
		}, "network"),
	},
	{
		Name:        "get_dex_info",
		Description: "List the decentralized exchanges indexed on a network.",
		InputSchema: schema(map[string]interface{}{
			"network": strProp("DEX network id"),
		}, "network"),
	},
	{
		Name:        "get_pool_analytics",
		Description: "Fetch full detail and derived ratios for a single liquidity pool.",
		InputSchema: schema(map[string]interface{}{
			"network":      strProp("DEX network id"),
			"pool_address": strProp("Pool contract address"),
		}, "network", "pool_address"),
	},
	{
		Name:        "get_pool_ohlcv",
		Description: "Fetch a liquidity pool's OHLCV trade history with summary statistics.",
		InputSchema: schema(map[string]interface{}{
			"network":      strProp("DEX network id"),
			"pool_address": strProp("Pool contract address"),
			"start_date":   strProp("Start date, YYYY-MM-DD"),
			"end_date":     strProp("End date, YYYY-MM-DD; defaults to now"),
			"interval":     strProp("Bar interval, e.g. day, hour"),
		}, "network", "pool_address", "start_date"),
	},
	{
		Name:        "get_available_networks",
		Description: "List every blockchain network the DEX source indexes.",
		InputSchema: schema(map[string]interface{}{}),
	},
	{
		Name:        "search_tokens_advanced",
		Description: "Search DEX tokens filtered by minimum liquidity/volume, sorted by volume.",
		InputSchema: schema(map[string]interface{}{
			"query":             strProp("Search text"),
			"min_liquidity_usd": numProp("Minimum pool liquidity in USD"),
			"min_volume_usd":    numProp("Minimum 24h volume in USD"),
			"limit":             numProp("Maximum results"),
		}, "query"),
	},
}
