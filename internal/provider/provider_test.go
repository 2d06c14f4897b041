package provider

import (
	"context"
	"testing"
	"time"

	"cryptoedge-mcp/internal/errs"
	"cryptoedge-mcp/internal/model"
)

func TestTTLCacheExpires(t *testing.T) {
	c := newTTLCache[string, int](time.Minute)
	start := time.Now()
	c.set("a", 1, start)

	if v, ok := c.get("a", start.Add(30*time.Second)); !ok || v != 1 {
		t.Fatalf("get before expiry = (%v, %v), want (1, true)", v, ok)
	}
	if _, ok := c.get("a", start.Add(90*time.Second)); ok {
		t.Error("get after expiry should report not-found")
	}
}

func TestTTLCacheZeroNeverExpires(t *testing.T) {
	c := newTTLCache[string, int](0)
	start := time.Now()
	c.set("a", 1, start)
	if _, ok := c.get("a", start.AddDate(10, 0, 0)); !ok {
		t.Error("a zero-TTL cache entry must never expire")
	}
}

func TestTTLCacheSweep(t *testing.T) {
	c := newTTLCache[string, int](time.Minute)
	start := time.Now()
	c.set("old", 1, start)
	c.set("fresh", 2, start.Add(50*time.Second))

	evicted := c.sweep(start.Add(70 * time.Second))
	if evicted != 1 {
		t.Fatalf("sweep evicted %d, want 1", evicted)
	}
	if _, ok := c.get("fresh", start.Add(70*time.Second)); !ok {
		t.Error("sweep must not evict a still-fresh entry")
	}
}

func TestIsFallbackEligible(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errs.New(errs.InvalidSymbol, "bad"), true},
		{errs.New(errs.NetworkError, "timeout"), true},
		{errs.New(errs.RateLimit, "429"), true},
		{errs.New(errs.PaymentRequired, "402"), false},
		{errs.New(errs.DataParsing, "bad json"), false},
		{nil, false},
	}
	for _, c := range cases {
		if got := isFallbackEligible(c.err); got != c.want {
			t.Errorf("isFallbackEligible(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

// fakeSource is a minimal Source stub for provider fallback tests.
type fakeSource struct {
	name        string
	resolveErr  error
	resolveID   string
	tickerErr   error
	ticker      model.PriceSnapshot
	ohlcvErr    error
	ohlcv       []model.Candle
	resolveCall int
	tickerCall  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Resolve(ctx context.Context, symbol string) (string, error) {
	f.resolveCall++
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.resolveID, nil
}

func (f *fakeSource) FetchTicker(ctx context.Context, id string) (model.PriceSnapshot, error) {
	f.tickerCall++
	if f.tickerErr != nil {
		return model.PriceSnapshot{}, f.tickerErr
	}
	return f.ticker, nil
}

func (f *fakeSource) FetchOHLCV(ctx context.Context, id string, tf model.Timeframe, periods int) ([]model.Candle, error) {
	if f.ohlcvErr != nil {
		return nil, f.ohlcvErr
	}
	return f.ohlcv, nil
}

func TestResolveFallsBackOnInvalidSymbol(t *testing.T) {
	primary := &fakeSource{name: "primary", resolveErr: errs.New(errs.InvalidSymbol, "unknown")}
	secondary := &fakeSource{name: "secondary", resolveID: "btc-secondary"}
	p := New(primary, secondary)

	id, err := p.Resolve(context.Background(), "btc")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id != "btc-secondary" {
		t.Errorf("Resolve = %q, want %q", id, "btc-secondary")
	}
	if secondary.resolveCall != 1 {
		t.Errorf("secondary.Resolve called %d times, want 1", secondary.resolveCall)
	}
}

func TestResolveDoesNotFallBackOnPaymentRequired(t *testing.T) {
	primary := &fakeSource{name: "primary", resolveErr: errs.New(errs.PaymentRequired, "quota exceeded")}
	secondary := &fakeSource{name: "secondary", resolveID: "btc-secondary"}
	p := New(primary, secondary)

	if _, err := p.Resolve(context.Background(), "btc"); errs.KindOf(err) != errs.PaymentRequired {
		t.Fatalf("Resolve error kind = %v, want %v", errs.KindOf(err), errs.PaymentRequired)
	}
	if secondary.resolveCall != 0 {
		t.Error("secondary must not be consulted on a definitive PaymentRequired error")
	}
}

func TestResolveIsCached(t *testing.T) {
	primary := &fakeSource{name: "primary", resolveID: "btc-id"}
	secondary := &fakeSource{name: "secondary"}
	p := New(primary, secondary)

	ctx := context.Background()
	if _, err := p.Resolve(ctx, "btc"); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if _, err := p.Resolve(ctx, "btc"); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if primary.resolveCall != 1 {
		t.Errorf("primary.Resolve called %d times, want 1 (second call should hit cache)", primary.resolveCall)
	}
}

func TestCandlesNeverFallsBackToSecondary(t *testing.T) {
	primary := &fakeSource{name: "primary", resolveID: "btc-id", ohlcvErr: errs.New(errs.NetworkError, "timeout")}
	secondary := &fakeSource{name: "secondary"}
	p := New(primary, secondary)

	_, err := p.Candles(context.Background(), "btc", model.TimeframeDaily, 100)
	if errs.KindOf(err) != errs.NetworkError {
		t.Fatalf("Candles error kind = %v, want %v", errs.KindOf(err), errs.NetworkError)
	}
}

func TestCandlesEmptyResultIsInsufficientData(t *testing.T) {
	primary := &fakeSource{name: "primary", resolveID: "btc-id", ohlcv: nil}
	secondary := &fakeSource{name: "secondary"}
	p := New(primary, secondary)

	_, err := p.Candles(context.Background(), "btc", model.TimeframeDaily, 100)
	if errs.KindOf(err) != errs.InsufficientData {
		t.Fatalf("Candles error kind = %v, want %v", errs.KindOf(err), errs.InsufficientData)
	}
}

func TestNewWithTTLsZeroFallsBackToDefaults(t *testing.T) {
	p := NewWithTTLs(&fakeSource{}, &fakeSource{}, 0, 0)
	if p.prices.ttl != priceTTL {
		t.Errorf("prices.ttl = %v, want default %v", p.prices.ttl, priceTTL)
	}
	if p.bars.ttl != candleTTL {
		t.Errorf("bars.ttl = %v, want default %v", p.bars.ttl, candleTTL)
	}
}

func TestSecondaryReturnsNilForNonGeckoTerminalSource(t *testing.T) {
	p := New(&fakeSource{}, &fakeSource{})
	if got := p.Secondary(); got != nil {
		t.Errorf("Secondary() = %v, want nil for a non-GeckoTerminalSource", got)
	}
}
