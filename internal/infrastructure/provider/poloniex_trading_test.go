package provider_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/provider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTrading(body string, code int, seen *[]*http.Request) *provider.PoloniexTrading {
	return &provider.PoloniexTrading{
		BaseURL: "https://poloniex.example",
		APIKey:  "key-1",
		Secret:  "s3cret",
		Client:  httpClient(body, code, seen),
	}
}

func TestBalances_SignedRequest(t *testing.T) {
	var seen []*http.Request
	p := newTrading(`{"BTC":"0.59098578","LTC":"3.31117268"}`, 200, &seen)

	got, err := p.Balances(context.Background())
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.59098578").Equal(got["BTC"]))
	require.Len(t, got, 2)

	require.Len(t, seen, 1)
	r := seen[0]
	require.Equal(t, http.MethodPost, r.Method)
	require.Equal(t, "/tradingApi", r.URL.Path)
	require.Equal(t, "key-1", r.Header.Get("Key"))

	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	form, err := url.ParseQuery(string(raw))
	require.NoError(t, err)
	require.Equal(t, "returnBalances", form.Get("command"))
	require.NotEmpty(t, form.Get("nonce"))
	require.Equal(t, provider.Sign("s3cret", string(raw)), r.Header.Get("Sign"))
}

func TestBalances_NonceIncreases(t *testing.T) {
	var seen []*http.Request
	p := newTrading(`{"BTC":"1"}`, 200, &seen)
	for i := 0; i < 3; i++ {
		_, err := p.Balances(context.Background())
		require.NoError(t, err)
	}
	var last int64
	for _, r := range seen {
		raw, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(raw))
		n := form.Get("nonce")
		d, err := decimal.NewFromString(n)
		require.NoError(t, err)
		require.Greater(t, d.IntPart(), last)
		last = d.IntPart()
	}
}

func TestOpenOrders_Decodes(t *testing.T) {
	body := `{
	  "USDT_BTC": [{"orderNumber":"200","type":"sell","rate":"65000","amount":"0.1","total":"6500","date":"2025-01-01 10:00:00"}],
	  "BTC_ETH": [{"orderNumber":"120","type":"buy","rate":"0.03","amount":"2","total":"0.06","date":"2025-01-01 09:30:00"}],
	  "BTC_XMR": []
	}`
	p := newTrading(body, 200, nil)
	got, err := p.OpenOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, domain.Pair("BTC_ETH"), got[0].Pair)
	require.Equal(t, "buy", got[0].Type)
	require.Equal(t, time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC), got[0].Date)
	require.Equal(t, domain.Pair("USDT_BTC"), got[1].Pair)
}

func TestTrading_ErrorBody(t *testing.T) {
	p := newTrading(`{"error":"Invalid API key/secret pair."}`, 200, nil)
	_, err := p.Balances(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamMalformed)
}

func TestTrading_NotConfigured(t *testing.T) {
	p := &provider.PoloniexTrading{BaseURL: "https://poloniex.example"}
	_, err := p.OpenOrders(context.Background())
	require.ErrorIs(t, err, application.ErrAccountNotConfigured)
}
