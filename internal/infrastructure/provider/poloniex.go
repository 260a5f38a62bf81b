package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	poloniexPublicPath  = "/public"
	poloniexTradingPath = "/tradingApi"
)

// PoloniexProvider reads the public returnTicker feed.
type PoloniexProvider struct {
	BaseURL string
	Client  *httpx.Client
	Now     func() time.Time
}

var _ application.TickerSource = (*PoloniexProvider)(nil)

type poloniexTicker struct {
	Last          decimal.NullDecimal `json:"last"`
	LowestAsk     decimal.NullDecimal `json:"lowestAsk"`
	HighestBid    decimal.NullDecimal `json:"highestBid"`
	PercentChange decimal.NullDecimal `json:"percentChange"`
	BaseVolume    decimal.NullDecimal `json:"baseVolume"`
	QuoteVolume   decimal.NullDecimal `json:"quoteVolume"`
	IsFrozen      string              `json:"isFrozen"`
	High24hr      decimal.NullDecimal `json:"high24hr"`
	Low24hr       decimal.NullDecimal `json:"low24hr"`
}

func (t poloniexTicker) fields() (domain.TickerFields, error) {
	required := []struct {
		name string
		v    decimal.NullDecimal
	}{
		{"last", t.Last},
		{"lowestAsk", t.LowestAsk},
		{"highestBid", t.HighestBid},
		{"percentChange", t.PercentChange},
		{"baseVolume", t.BaseVolume},
		{"quoteVolume", t.QuoteVolume},
		{"high24hr", t.High24hr},
		{"low24hr", t.Low24hr},
	}
	for _, r := range required {
		if !r.v.Valid {
			return domain.TickerFields{}, fmt.Errorf("missing field %s", r.name)
		}
	}
	return domain.TickerFields{
		Last:          t.Last.Decimal,
		LowestAsk:     t.LowestAsk.Decimal,
		HighestBid:    t.HighestBid.Decimal,
		High24h:       t.High24hr.Decimal,
		Low24h:        t.Low24hr.Decimal,
		BaseVolume:    t.BaseVolume.Decimal,
		QuoteVolume:   t.QuoteVolume.Decimal,
		PercentChange: t.PercentChange.Decimal,
		Frozen:        t.IsFrozen == "1",
	}, nil
}

// FetchTickers returns every ticker the exchange reports. A single bad entry
// rejects the whole response.
func (p *PoloniexProvider) FetchTickers(ctx context.Context) (domain.UpstreamTickers, error) {
	u, err := p.endpoint(poloniexPublicPath)
	if err != nil {
		return domain.UpstreamTickers{}, err
	}
	q := u.Query()
	q.Set("command", "returnTicker")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.UpstreamTickers{}, fmt.Errorf("poloniex: create request: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := p.client().DoJSON(ctx, req, &raw); err != nil {
		return domain.UpstreamTickers{}, fmt.Errorf("poloniex: returnTicker: %w", err)
	}
	if err := errorBody(raw); err != nil {
		return domain.UpstreamTickers{}, fmt.Errorf("poloniex: returnTicker: %w", err)
	}

	out := domain.UpstreamTickers{
		AsOf:    p.now(),
		Tickers: make(map[string]domain.TickerFields, len(raw)),
	}
	for pair, msg := range raw {
		var t poloniexTicker
		if err := json.Unmarshal(msg, &t); err != nil {
			return domain.UpstreamTickers{}, fmt.Errorf("poloniex: %w: %s: %v", domain.ErrUpstreamMalformed, pair, err)
		}
		f, err := t.fields()
		if err != nil {
			return domain.UpstreamTickers{}, fmt.Errorf("poloniex: %w: %s: %v", domain.ErrUpstreamMalformed, pair, err)
		}
		out.Tickers[pair] = f
	}
	return out, nil
}

func (p *PoloniexProvider) endpoint(path string) (*url.URL, error) {
	return endpoint(p.BaseURL, path)
}

func (p *PoloniexProvider) client() *httpx.Client {
	if p.Client == nil {
		return &httpx.Client{}
	}
	return p.Client
}

func (p *PoloniexProvider) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func endpoint(base, path string) (*url.URL, error) {
	if base == "" {
		return nil, errors.New("poloniex: missing base url")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("poloniex: invalid base url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}

// errorBody detects the {"error": "..."} envelope the exchange returns with a
// 200 status. Rate limiting is reported the same way.
func errorBody(raw map[string]json.RawMessage) error {
	msg, ok := raw["error"]
	if !ok {
		return nil
	}
	var text string
	if err := json.Unmarshal(msg, &text); err != nil {
		text = string(msg)
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "too many requests") || strings.Contains(lower, "rate limit") {
		return fmt.Errorf("%w: %s", domain.ErrUpstreamRateLimited, text)
	}
	return fmt.Errorf("%w: %s", domain.ErrUpstreamMalformed, text)
}
