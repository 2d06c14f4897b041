// Package provider resolves ticker symbols to upstream identifiers and
// fetches price snapshots and historical candles, falling back from a
// primary market-data source to a secondary DEX aggregator.
package provider

import (
	"context"
	"time"

	"cryptoedge-mcp/internal/model"
)

// Source is the common capability set both upstreams satisfy for core
// analytics: resolve a symbol, fetch its current ticker, fetch an OHLCV
// window. The provider composes two Sources with a fixed fallback order
// rather than through inheritance.
type Source interface {
	Name() string
	Resolve(ctx context.Context, symbol string) (string, error)
	FetchTicker(ctx context.Context, id string) (model.PriceSnapshot, error)
	FetchOHLCV(ctx context.Context, id string, tf model.Timeframe, periods int) ([]model.Candle, error)
}

// TokenInfo describes a token as surfaced by the secondary source's
// token-graph endpoints (search, per-network lookup).
type TokenInfo struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Network      string  `json:"network"`
	PriceUSD     float64 `json:"price_usd"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
	FDVUSD       float64 `json:"fdv_usd"`
}

// PoolInfo describes a single liquidity pool on a DEX.
type PoolInfo struct {
	Address      string  `json:"address"`
	Network      string  `json:"network"`
	DEX          string  `json:"dex"`
	BaseSymbol   string  `json:"base_symbol"`
	QuoteSymbol  string  `json:"quote_symbol"`
	PriceUSD     float64 `json:"price_usd"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
}

// DEXInfo names a decentralized exchange available on a network.
type DEXInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NetworkInfo names a blockchain network the secondary source indexes.
type NetworkInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PoolOHLCVPoint is one bar of a pool's trade history.
type PoolOHLCVPoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
