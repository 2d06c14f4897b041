package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cryptoedge-mcp/internal/errs"
	"cryptoedge-mcp/internal/model"
)

// GeckoTerminalSource is the secondary DEX aggregator, modeled on
// GeckoTerminal's network/pool/token endpoints. It is consulted when the
// primary source fails to resolve or errors, and also backs the
// token-graph tools (liquidity, pool analytics, cross-DEX comparison) that
// have no primary-source equivalent.
type GeckoTerminalSource struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewGeckoTerminalSource(baseURL string) *GeckoTerminalSource {
	if baseURL == "" {
		baseURL = "https://api.geckoterminal.com/api/v2"
	}
	return &GeckoTerminalSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(2), 3),
	}
}

func (s *GeckoTerminalSource) Name() string { return "geckoterminal" }

func (s *GeckoTerminalSource) Resolve(ctx context.Context, symbol string) (string, error) {
	tokens, err := s.SearchTokens(ctx, symbol, 5)
	if err != nil {
		return "", err
	}
	for _, t := range tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t.Network + ":" + t.Address, nil
		}
	}
	return "", errs.New(errs.InvalidSymbol, fmt.Sprintf("no DEX token found for %q", symbol))
}

func (s *GeckoTerminalSource) FetchTicker(ctx context.Context, id string) (model.PriceSnapshot, error) {
	network, address, err := splitID(id)
	if err != nil {
		return model.PriceSnapshot{}, err
	}
	tok, err := s.TokenByAddress(ctx, network, address)
	if err != nil {
		return model.PriceSnapshot{}, err
	}
	return model.PriceSnapshot{
		Symbol:       tok.Symbol,
		Price:        tok.PriceUSD,
		Volume24h:    tok.Volume24hUSD,
		PctChanges:   map[model.ChangeWindow]float64{},
		FetchedAt:    time.Now(),
		Source:       s.Name(),
	}, nil
}

// FetchOHLCV satisfies Source for fallback resolution/price purposes only;
// per §4.1, historical candles for core analytics never fall back to the
// secondary source, so this always fails InsufficientData.
func (s *GeckoTerminalSource) FetchOHLCV(ctx context.Context, id string, tf model.Timeframe, periods int) ([]model.Candle, error) {
	return nil, errs.New(errs.InsufficientData, "secondary source does not supply core candle history")
}

// SearchTokens is the secondary source's global token search, used both by
// Resolve and by the search_tokens_advanced/search_tokens_by_network tools.
func (s *GeckoTerminalSource) SearchTokens(ctx context.Context, query string, limit int) ([]TokenInfo, error) {
	type tokenResp struct {
		Data []struct {
			Attributes struct {
				Symbol       string `json:"symbol"`
				Name         string `json:"name"`
				Address      string `json:"address"`
				PriceUSD     string `json:"price_usd"`
				FDVUSD       string `json:"fdv_usd"`
				Volume24hUSD string `json:"volume_usd_24h"`
				LiquidityUSD string `json:"reserve_in_usd"`
			} `json:"attributes"`
			Relationships struct {
				Network struct {
					Data struct{ ID string `json:"id"` } `json:"data"`
				} `json:"network"`
			} `json:"relationships"`
		} `json:"data"`
	}

	var resp tokenResp
	endpoint := fmt.Sprintf("%s/search/pools?query=%s&page=1", s.BaseURL, query)
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	out := make([]TokenInfo, 0, len(resp.Data))
	for i, d := range resp.Data {
		if i >= limit {
			break
		}
		out = append(out, TokenInfo{
			Symbol:       d.Attributes.Symbol,
			Name:         d.Attributes.Name,
			Address:      d.Attributes.Address,
			Network:      d.Relationships.Network.Data.ID,
			PriceUSD:     parseFloat(d.Attributes.PriceUSD),
			Volume24hUSD: parseFloat(d.Attributes.Volume24hUSD),
			LiquidityUSD: parseFloat(d.Attributes.LiquidityUSD),
			FDVUSD:       parseFloat(d.Attributes.FDVUSD),
		})
	}
	return out, nil
}

// TokenByAddress looks up a single token by (network, address).
func (s *GeckoTerminalSource) TokenByAddress(ctx context.Context, network, address string) (TokenInfo, error) {
	type tokenResp struct {
		Data struct {
			Attributes struct {
				Symbol       string `json:"symbol"`
				Name         string `json:"name"`
				Address      string `json:"address"`
				PriceUSD     string `json:"price_usd"`
				Volume24hUSD string `json:"volume_usd_24h"`
				FDVUSD       string `json:"fdv_usd"`
			} `json:"attributes"`
		} `json:"data"`
	}

	var resp tokenResp
	endpoint := fmt.Sprintf("%s/networks/%s/tokens/%s", s.BaseURL, network, address)
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return TokenInfo{}, err
	}
	a := resp.Data.Attributes
	return TokenInfo{
		Symbol: a.Symbol, Name: a.Name, Address: a.Address, Network: network,
		PriceUSD: parseFloat(a.PriceUSD), Volume24hUSD: parseFloat(a.Volume24hUSD), FDVUSD: parseFloat(a.FDVUSD),
	}, nil
}

// NetworkPools lists the top pools on a network, sorted by the given field.
func (s *GeckoTerminalSource) NetworkPools(ctx context.Context, network, sortBy string, limit int) ([]PoolInfo, error) {
	type poolResp struct {
		Data []struct {
			Attributes struct {
				Address      string `json:"address"`
				Name         string `json:"name"`
				BaseSymbol   string `json:"base_token_symbol"`
				QuoteSymbol  string `json:"quote_token_symbol"`
				PriceUSD     string `json:"base_token_price_usd"`
				LiquidityUSD string `json:"reserve_in_usd"`
				Volume24hUSD string `json:"volume_usd_24h"`
			} `json:"attributes"`
			Relationships struct {
				DEX struct {
					Data struct{ ID string `json:"id"` } `json:"data"`
				} `json:"dex"`
			} `json:"relationships"`
		} `json:"data"`
	}

	if sortBy == "" {
		sortBy = "h24_volume_usd_desc"
	}
	var resp poolResp
	endpoint := fmt.Sprintf("%s/networks/%s/pools?sort=%s&page=1", s.BaseURL, network, sortBy)
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	out := make([]PoolInfo, 0, len(resp.Data))
	for i, d := range resp.Data {
		if i >= limit {
			break
		}
		out = append(out, PoolInfo{
			Address: d.Attributes.Address, Network: network, DEX: d.Relationships.DEX.Data.ID,
			BaseSymbol: d.Attributes.BaseSymbol, QuoteSymbol: d.Attributes.QuoteSymbol,
			PriceUSD: parseFloat(d.Attributes.PriceUSD), LiquidityUSD: parseFloat(d.Attributes.LiquidityUSD),
			Volume24hUSD: parseFloat(d.Attributes.Volume24hUSD),
		})
	}
	return out, nil
}

// PoolDetail fetches one pool's full attributes.
func (s *GeckoTerminalSource) PoolDetail(ctx context.Context, network, poolAddress string) (PoolInfo, error) {
	pools, err := s.NetworkPools(ctx, network, "", 100)
	if err != nil {
		return PoolInfo{}, err
	}
	for _, p := range pools {
		if strings.EqualFold(p.Address, poolAddress) {
			return p, nil
		}
	}
	return PoolInfo{}, errs.New(errs.InvalidSymbol, fmt.Sprintf("pool %q not found on %q", poolAddress, network))
}

// PoolOHLCV fetches a pool's per-bar trade history over [start,end].
func (s *GeckoTerminalSource) PoolOHLCV(ctx context.Context, network, poolAddress string, start, end time.Time, interval string) ([]PoolOHLCVPoint, error) {
	if interval == "" {
		interval = "day"
	}
	type ohlcvResp struct {
		Data struct {
			Attributes struct {
				OHLCVList [][]float64 `json:"ohlcv_list"`
			} `json:"attributes"`
		} `json:"data"`
	}

	var resp ohlcvResp
	endpoint := fmt.Sprintf("%s/networks/%s/pools/%s/ohlcv/%s?before_timestamp=%d", s.BaseURL, network, poolAddress, interval, end.Unix())
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	out := make([]PoolOHLCVPoint, 0, len(resp.Data.Attributes.OHLCVList))
	for _, row := range resp.Data.Attributes.OHLCVList {
		if len(row) < 6 {
			continue
		}
		ts := time.Unix(int64(row[0]), 0)
		if ts.Before(start) {
			continue
		}
		out = append(out, PoolOHLCVPoint{Time: ts, Open: row[1], High: row[2], Low: row[3], Close: row[4], Volume: row[5]})
	}
	return out, nil
}

// DEXList lists the DEXes indexed on a network.
func (s *GeckoTerminalSource) DEXList(ctx context.Context, network string) ([]DEXInfo, error) {
	type dexResp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct{ Name string `json:"name"` } `json:"attributes"`
		} `json:"data"`
	}
	var resp dexResp
	if err := s.getJSON(ctx, fmt.Sprintf("%s/networks/%s/dexes", s.BaseURL, network), &resp); err != nil {
		return nil, err
	}
	out := make([]DEXInfo, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, DEXInfo{ID: d.ID, Name: d.Attributes.Name})
	}
	return out, nil
}

// AvailableNetworks lists every network the secondary source indexes.
func (s *GeckoTerminalSource) AvailableNetworks(ctx context.Context) ([]NetworkInfo, error) {
	type netResp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct{ Name string `json:"name"` } `json:"attributes"`
		} `json:"data"`
	}
	var resp netResp
	if err := s.getJSON(ctx, fmt.Sprintf("%s/networks", s.BaseURL), &resp); err != nil {
		return nil, err
	}
	out := make([]NetworkInfo, 0, len(resp.Data))
	for _, n := range resp.Data {
		out = append(out, NetworkInfo{ID: n.ID, Name: n.Attributes.Name})
	}
	return out, nil
}

// GlobalPools is a deprecated upstream endpoint; per the documented Open
// Question decision it fails fast with a typed not-supported error rather
// than attempting a request that GeckoTerminal itself has retired.
func (s *GeckoTerminalSource) GlobalPools(ctx context.Context) ([]PoolInfo, error) {
	return nil, errs.New(errs.Unknown, "global-pools endpoint is deprecated upstream; use get_network_pools")
}

func (s *GeckoTerminalSource) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return errs.Wrap(errs.NetworkError, "rate limiter wait", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.Wrap(errs.Unknown, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return errs.Wrap(errs.NetworkError, "geckoterminal request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(errs.NetworkError, "read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errs.New(errs.RateLimit, "geckoterminal: rate limited")
	case resp.StatusCode == http.StatusNotFound:
		return errs.New(errs.InvalidSymbol, "geckoterminal: not found")
	case resp.StatusCode >= 400:
		return errs.New(errs.NetworkError, fmt.Sprintf("geckoterminal: status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errs.Wrap(errs.DataParsing, "decode geckoterminal response", err)
	}
	return nil
}

func splitID(id string) (network, address string, err error) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) != 2 {
		return "", "", errs.New(errs.InvalidSymbol, fmt.Sprintf("malformed secondary-source id %q", id))
	}
	return parts[0], parts[1], nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
