package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"cryptoedge-mcp/internal/errs"
	"cryptoedge-mcp/internal/model"
)

const (
	priceTTL  = 60 * time.Second
	candleTTL = 300 * time.Second
)

// candleKey identifies one historical-window cache entry.
type candleKey struct {
	ticker   string
	tf       model.Timeframe
	periods  int
}

// Provider resolves symbols and fetches price/candle data from the primary
// source, falling back to the secondary source for resolution and price
// only. Each of its three caches is owned exclusively by the provider and
// mutated only through it, per the actor-style component isolation rule.
type Provider struct {
	primary   Source
	secondary Source

	ids    *ttlCache[string, string]
	prices *ttlCache[string, model.PriceSnapshot]
	bars   *ttlCache[candleKey, []model.Candle]

	group singleflight.Group
}

func New(primary, secondary Source) *Provider {
	return NewWithTTLs(primary, secondary, priceTTL, candleTTL)
}

// NewWithTTLs builds a Provider with overridden price/candle cache TTLs,
// used by tests and by config-driven TTL overrides; a zero duration falls
// back to the package default.
func NewWithTTLs(primary, secondary Source, priceTTLOverride, candleTTLOverride time.Duration) *Provider {
	if priceTTLOverride == 0 {
		priceTTLOverride = priceTTL
	}
	if candleTTLOverride == 0 {
		candleTTLOverride = candleTTL
	}
	return &Provider{
		primary:   primary,
		secondary: secondary,
		ids:       newTTLCache[string, string](0),
		prices:    newTTLCache[string, model.PriceSnapshot](priceTTLOverride),
		bars:      newTTLCache[candleKey, []model.Candle](candleTTLOverride),
	}
}

// Secondary exposes the DEX-graph source directly for the dex-specific
// tools (liquidity, pool analytics, cross-DEX comparison) that have no
// primary-source equivalent and so bypass the resolve/fallback pipeline.
func (p *Provider) Secondary() *GeckoTerminalSource {
	gt, _ := p.secondary.(*GeckoTerminalSource)
	return gt
}

// Resolve canonicalizes symbol to upper-case and maps it to an upstream id,
// trying the primary source first and falling back to the secondary on
// InvalidSymbol, NetworkError or RateLimit. Resolved ids are cached unbounded.
func (p *Provider) Resolve(ctx context.Context, symbol string) (string, error) {
	symbol = strings.ToUpper(symbol)
	if id, ok := p.ids.get(symbol, time.Now()); ok {
		return id, nil
	}

	v, err, _ := p.group.Do("resolve:"+symbol, func() (interface{}, error) {
		id, err := p.primary.Resolve(ctx, symbol)
		if err != nil && isFallbackEligible(err) {
			id, err = p.secondary.Resolve(ctx, symbol)
		}
		if err != nil {
			return "", err
		}
		p.ids.set(symbol, id, time.Now())
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Price fetches the current ticker for symbol, falling back to the
// secondary source under the same eligibility rule as Resolve.
func (p *Provider) Price(ctx context.Context, symbol string) (model.PriceSnapshot, error) {
	symbol = strings.ToUpper(symbol)
	if snap, ok := p.prices.get(symbol, time.Now()); ok {
		return snap, nil
	}

	v, err, _ := p.group.Do("price:"+symbol, func() (interface{}, error) {
		id, err := p.Resolve(ctx, symbol)
		if err != nil {
			return model.PriceSnapshot{}, err
		}
		snap, err := p.primary.FetchTicker(ctx, id)
		if err != nil && isFallbackEligible(err) {
			secID, resolveErr := p.secondary.Resolve(ctx, symbol)
			if resolveErr == nil {
				snap, err = p.secondary.FetchTicker(ctx, secID)
			}
		}
		if err != nil {
			return model.PriceSnapshot{}, err
		}
		p.prices.set(symbol, snap, time.Now())
		return snap, nil
	})
	if err != nil {
		return model.PriceSnapshot{}, err
	}
	return v.(model.PriceSnapshot), nil
}

// Candles fetches a historical OHLCV window from the primary source only;
// per §4.1 there is no secondary fallback for core candle history, so a
// primary failure surfaces directly (InsufficientData if no bars come back).
func (p *Provider) Candles(ctx context.Context, symbol string, tf model.Timeframe, periods int) ([]model.Candle, error) {
	symbol = strings.ToUpper(symbol)
	key := candleKey{ticker: symbol, tf: tf, periods: periods}
	if bars, ok := p.bars.get(key, time.Now()); ok {
		return bars, nil
	}

	cacheKey := fmt.Sprintf("candles:%s:%s:%d", symbol, tf, periods)
	v, err, _ := p.group.Do(cacheKey, func() (interface{}, error) {
		id, err := p.Resolve(ctx, symbol)
		if err != nil {
			return nil, err
		}
		bars, err := p.primary.FetchOHLCV(ctx, id, tf, periods)
		if err != nil {
			return nil, err
		}
		if len(bars) == 0 {
			return nil, errs.New(errs.InsufficientData, "no historical candles returned")
		}
		p.bars.set(key, bars, time.Now())
		return bars, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Candle), nil
}

// SweepCaches evicts expired price and candle entries; invoked by the
// scheduler's cache-sweep cron job. Returns the number of entries evicted.
func (p *Provider) SweepCaches() int {
	now := time.Now()
	return p.prices.sweep(now) + p.bars.sweep(now)
}

// isFallbackEligible reports whether err justifies trying the secondary
// source: resolution failures and transport errors, but never a payment
// requirement (which is definitive, not a reason to try elsewhere).
func isFallbackEligible(err error) bool {
	switch errs.KindOf(err) {
	case errs.InvalidSymbol, errs.NetworkError, errs.RateLimit:
		return true
	default:
		return false
	}
}
