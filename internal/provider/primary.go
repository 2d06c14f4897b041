package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cryptoedge-mcp/internal/errs"
	"cryptoedge-mcp/internal/model"
)

// staticTickerIDs maps well-known symbols straight to the primary source's
// upstream id, skipping the search endpoint for the common case.
var staticTickerIDs = map[string]string{
	"BTC":  "btc-bitcoin",
	"ETH":  "eth-ethereum",
	"USDT": "usdt-tether",
	"BNB":  "bnb-binance-coin",
	"SOL":  "sol-solana",
	"XRP":  "xrp-xrp",
	"ADA":  "ada-cardano",
	"DOGE": "doge-dogecoin",
}

// intervalFor maps a Timeframe onto the primary source's historical
// interval query parameter.
func intervalFor(tf model.Timeframe) string {
	switch tf {
	case model.Timeframe4h:
		return "4h"
	case model.TimeframeDaily:
		return "1d"
	case model.TimeframeWeekly:
		return "7d"
	case model.TimeframeMonth:
		return "30d"
	default:
		return "1d"
	}
}

// CoinPaprikaSource is the primary market-data aggregator, modeled on
// CoinPaprika's tickers/historical endpoints: a static symbol→id map for
// well-known tickers, a search endpoint otherwise, and an interval-keyed
// OHLCV history endpoint.
type CoinPaprikaSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewCoinPaprikaSource builds a primary source with a 30s-timeout client
// and a limiter sized for the free-tier rate ceiling.
func NewCoinPaprikaSource(baseURL, apiKey string) *CoinPaprikaSource {
	if baseURL == "" {
		baseURL = "https://api.coinpaprika.com/v1"
	}
	return &CoinPaprikaSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

func (s *CoinPaprikaSource) Name() string { return "coinpaprika" }

func (s *CoinPaprikaSource) Resolve(ctx context.Context, symbol string) (string, error) {
	symbol = strings.ToUpper(symbol)
	if id, ok := staticTickerIDs[symbol]; ok {
		return id, nil
	}

	type searchResult struct {
		Currencies []struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
		} `json:"currencies"`
	}

	var res searchResult
	endpoint := fmt.Sprintf("%s/search?q=%s&c=currencies&limit=5", s.BaseURL, symbol)
	if err := s.getJSON(ctx, endpoint, &res); err != nil {
		return "", err
	}
	for _, c := range res.Currencies {
		if strings.EqualFold(c.Symbol, symbol) {
			return c.ID, nil
		}
	}
	return "", errs.New(errs.InvalidSymbol, fmt.Sprintf("no upstream id found for %q", symbol))
}

func (s *CoinPaprikaSource) FetchTicker(ctx context.Context, id string) (model.PriceSnapshot, error) {
	type tickerResp struct {
		Symbol string `json:"symbol"`
		Quotes struct {
			USD struct {
				Price           float64 `json:"price"`
				Volume24h       float64 `json:"volume_24h"`
				MarketCap       float64 `json:"market_cap"`
				PercentChange15m float64 `json:"percent_change_15m"`
				PercentChange30m float64 `json:"percent_change_30m"`
				PercentChange1h  float64 `json:"percent_change_1h"`
				PercentChange6h  float64 `json:"percent_change_6h"`
				PercentChange12h float64 `json:"percent_change_12h"`
				PercentChange24h float64 `json:"percent_change_24h"`
				PercentChange7d  float64 `json:"percent_change_7d"`
				PercentChange30d float64 `json:"percent_change_30d"`
				PercentChange1y  float64 `json:"percent_change_1y"`
				ATHPrice         float64 `json:"ath_price"`
				ATHDate          string  `json:"ath_date"`
			} `json:"USD"`
		} `json:"quotes"`
		Rank int `json:"rank"`
	}

	var t tickerResp
	if err := s.getJSON(ctx, fmt.Sprintf("%s/tickers/%s", s.BaseURL, id), &t); err != nil {
		return model.PriceSnapshot{}, err
	}

	q := t.Quotes.USD
	// change_24h computed as price - price/(1+pct/100), per the documented
	// Open Question decision, not the textbook price*pct/100 shorthand.
	change24hAbs := q.Price - q.Price/(1+q.PercentChange24h/100)

	marketCap := q.MarketCap
	rank := t.Rank
	snap := model.PriceSnapshot{
		Symbol:       t.Symbol,
		Price:        q.Price,
		Change24hAbs: change24hAbs,
		Change24hPct: q.PercentChange24h,
		Volume24h:    q.Volume24h,
		MarketCap:    &marketCap,
		Rank:         &rank,
		PctChanges: map[model.ChangeWindow]float64{
			model.Change15m: q.PercentChange15m,
			model.Change30m: q.PercentChange30m,
			model.Change1h:  q.PercentChange1h,
			model.Change6h:  q.PercentChange6h,
			model.Change12h: q.PercentChange12h,
			model.Change24h: q.PercentChange24h,
			model.Change7d:  q.PercentChange7d,
			model.Change30d: q.PercentChange30d,
			model.Change1y:  q.PercentChange1y,
		},
		FetchedAt: time.Now(),
		Source:    s.Name(),
	}
	if q.ATHPrice > 0 {
		ath := q.ATHPrice
		snap.ATHPrice = &ath
		if parsed, err := time.Parse(time.RFC3339, q.ATHDate); err == nil {
			snap.ATHDate = &parsed
		}
	}
	return snap, nil
}

func (s *CoinPaprikaSource) FetchOHLCV(ctx context.Context, id string, tf model.Timeframe, periods int) ([]model.Candle, error) {
	if s.APIKey == "" && (tf == model.Timeframe4h) {
		return nil, errs.New(errs.PaymentRequired, "intraday candles require a paid-tier API key")
	}

	type bar struct {
		TimeOpen string  `json:"time_open"`
		Open     float64 `json:"open"`
		High     float64 `json:"high"`
		Low      float64 `json:"low"`
		Close    float64 `json:"close"`
		Volume   float64 `json:"volume"`
	}

	var bars []bar
	start := time.Now().AddDate(0, 0, -periods*7).Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/tickers/%s/historical?start=%s&interval=%s&limit=%d", s.BaseURL, id, start, intervalFor(tf), periods)
	if err := s.getJSON(ctx, endpoint, &bars); err != nil {
		return nil, err
	}

	candles := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		ts, err := time.Parse(time.RFC3339, b.TimeOpen)
		if err != nil {
			return nil, errs.Wrap(errs.DataParsing, "malformed historical bar timestamp", err)
		}
		candles = append(candles, model.Candle{
			Time: ts, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume,
		})
	}
	if len(candles) > periods {
		candles = candles[len(candles)-periods:]
	}
	return candles, nil
}

// getJSON issues a rate-limited GET and decodes the JSON body into out,
// mapping transport and status failures onto the typed error kinds.
func (s *CoinPaprikaSource) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return errs.Wrap(errs.NetworkError, "rate limiter wait", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.Wrap(errs.Unknown, "build request", err)
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return errs.Wrap(errs.NetworkError, "coinpaprika request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(errs.NetworkError, "read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return errs.New(errs.PaymentRequired, "coinpaprika: endpoint requires a paid tier")
	case resp.StatusCode == http.StatusTooManyRequests:
		return errs.New(errs.RateLimit, "coinpaprika: rate limited")
	case resp.StatusCode == http.StatusNotFound:
		return errs.New(errs.InvalidSymbol, "coinpaprika: not found")
	case resp.StatusCode >= 400:
		return errs.New(errs.NetworkError, fmt.Sprintf("coinpaprika: status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errs.Wrap(errs.DataParsing, "decode coinpaprika response", err)
	}
	return nil
}
