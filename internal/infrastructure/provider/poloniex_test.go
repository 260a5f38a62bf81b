package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/httpx"
	"ticker-service/internal/infrastructure/provider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func httpClient(resBody string, code int, seen *[]*http.Request) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			if seen != nil {
				*seen = append(*seen, r)
			}
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
				Request:    r,
			}
		}),
	}}
}

const sampleTickers = `{
  "BTC_ETH": {"id":148,"last":"0.03200000","lowestAsk":"0.03201000","highestBid":"0.03199000",
    "percentChange":"-0.01250000","baseVolume":"120.5","quoteVolume":"3765.6","isFrozen":"0",
    "high24hr":"0.03300000","low24hr":"0.03100000"},
  "USDT_BTC": {"id":121,"last":"64000.1","lowestAsk":"64001","highestBid":"63999",
    "percentChange":"0.02","baseVolume":"1000000","quoteVolume":"15.6","isFrozen":"1",
    "high24hr":"65000","low24hr":"63000"}
}`

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newPoloniex(body string, code int, seen *[]*http.Request) *provider.PoloniexProvider {
	return &provider.PoloniexProvider{
		BaseURL: "https://poloniex.example",
		Client:  httpClient(body, code, seen),
		Now:     func() time.Time { return fixedNow },
	}
}

func TestFetchTickers_HappyPath(t *testing.T) {
	var seen []*http.Request
	p := newPoloniex(sampleTickers, 200, &seen)

	got, err := p.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Equal(t, fixedNow, got.AsOf)
	require.Len(t, got.Tickers, 2)

	eth := got.Tickers["BTC_ETH"]
	require.True(t, decimal.RequireFromString("0.032").Equal(eth.Last))
	require.True(t, decimal.RequireFromString("0.031").Equal(eth.Low24h))
	require.True(t, decimal.RequireFromString("-0.0125").Equal(eth.PercentChange))
	require.False(t, eth.Frozen)
	require.True(t, got.Tickers["USDT_BTC"].Frozen)

	require.Len(t, seen, 1)
	require.Equal(t, "/public", seen[0].URL.Path)
	require.Equal(t, "returnTicker", seen[0].URL.Query().Get("command"))
}

func TestFetchTickers_RateLimited(t *testing.T) {
	_, err := newPoloniex("", 429, nil).FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamRateLimited)
}

func TestFetchTickers_ServerError(t *testing.T) {
	_, err := newPoloniex("oops", 502, nil).FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamTransport)
}

func TestFetchTickers_ErrorBody(t *testing.T) {
	_, err := newPoloniex(`{"error":"Invalid command."}`, 200, nil).FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamMalformed)

	_, err = newPoloniex(`{"error":"Please do not make more than 6 API calls per second. Too many requests."}`, 200, nil).
		FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamRateLimited)
}

func TestFetchTickers_BadNumber(t *testing.T) {
	body := `{"BTC_ETH": {"last":"abc","lowestAsk":"1","highestBid":"1","percentChange":"0",
	  "baseVolume":"1","quoteVolume":"1","isFrozen":"0","high24hr":"1","low24hr":"1"}}`
	_, err := newPoloniex(body, 200, nil).FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamMalformed)
}

func TestFetchTickers_MissingField(t *testing.T) {
	body := `{"BTC_ETH": {"last":"1","lowestAsk":"1","highestBid":"1","percentChange":"0",
	  "baseVolume":"1","isFrozen":"0","high24hr":"1","low24hr":"1"}}`
	_, err := newPoloniex(body, 200, nil).FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamMalformed)
	require.Contains(t, err.Error(), "quoteVolume")
}

func TestFetchTickers_WrongShape(t *testing.T) {
	_, err := newPoloniex(`[1,2,3]`, 200, nil).FetchTickers(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamMalformed)
}

func TestFetchTickers_MissingBaseURL(t *testing.T) {
	p := &provider.PoloniexProvider{}
	_, err := p.FetchTickers(context.Background())
	require.Error(t, err)
}

func TestFake_AllPairs(t *testing.T) {
	pairs := []domain.Pair{"BTC_ETH", "USDT_BTC"}
	f := provider.NewFake(pairs, decimal.NewFromInt(100))
	got, err := f.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Tickers, 2)
	for _, p := range pairs {
		tk := got.Tickers[string(p)]
		require.True(t, decimal.NewFromInt(100).Equal(tk.Last))
		require.True(t, tk.High24h.GreaterThanOrEqual(tk.Low24h))
	}
	require.EqualValues(t, 1, f.Calls.Load())
}
