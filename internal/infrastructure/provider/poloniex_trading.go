package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const poloniexDateLayout = "2006-01-02 15:04:05"

// PoloniexTrading calls the private trading API. Each request carries the API
// key and an HMAC-SHA512 signature of the form body.
type PoloniexTrading struct {
	BaseURL string
	APIKey  string
	Secret  string
	Client  *httpx.Client

	nonce atomic.Int64
}

var _ application.AccountClient = (*PoloniexTrading)(nil)

func (p *PoloniexTrading) Balances(ctx context.Context) (domain.Balances, error) {
	var raw map[string]json.RawMessage
	if err := p.call(ctx, "returnBalances", nil, &raw); err != nil {
		return nil, err
	}
	out := make(domain.Balances, len(raw))
	for currency, msg := range raw {
		var amount decimal.Decimal
		if err := json.Unmarshal(msg, &amount); err != nil {
			return nil, fmt.Errorf("poloniex: %w: balance %s: %v", domain.ErrUpstreamMalformed, currency, err)
		}
		out[currency] = amount
	}
	return out, nil
}

type poloniexOrder struct {
	OrderNumber string          `json:"orderNumber"`
	Type        string          `json:"type"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Total       decimal.Decimal `json:"total"`
	Date        string          `json:"date"`
}

// OpenOrders lists open orders across all pairs, sorted by pair then order
// number.
func (p *PoloniexTrading) OpenOrders(ctx context.Context) ([]domain.OpenOrder, error) {
	var raw map[string]json.RawMessage
	form := url.Values{"currencyPair": {"all"}}
	if err := p.call(ctx, "returnOpenOrders", form, &raw); err != nil {
		return nil, err
	}
	out := []domain.OpenOrder{}
	for pair, msg := range raw {
		var orders []poloniexOrder
		if err := json.Unmarshal(msg, &orders); err != nil {
			return nil, fmt.Errorf("poloniex: %w: orders %s: %v", domain.ErrUpstreamMalformed, pair, err)
		}
		for _, o := range orders {
			var placed time.Time
			if o.Date != "" {
				t, err := time.ParseInLocation(poloniexDateLayout, o.Date, time.UTC)
				if err != nil {
					return nil, fmt.Errorf("poloniex: %w: order %s date: %v", domain.ErrUpstreamMalformed, o.OrderNumber, err)
				}
				placed = t
			}
			out = append(out, domain.OpenOrder{
				Pair:        domain.Pair(pair),
				OrderNumber: o.OrderNumber,
				Type:        o.Type,
				Rate:        o.Rate,
				Amount:      o.Amount,
				Total:       o.Total,
				Date:        placed,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pair != out[j].Pair {
			return out[i].Pair < out[j].Pair
		}
		return out[i].OrderNumber < out[j].OrderNumber
	})
	return out, nil
}

func (p *PoloniexTrading) call(ctx context.Context, command string, form url.Values, out *map[string]json.RawMessage) error {
	if p.APIKey == "" || p.Secret == "" {
		return application.ErrAccountNotConfigured
	}
	u, err := endpoint(p.BaseURL, poloniexTradingPath)
	if err != nil {
		return err
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("command", command)
	form.Set("nonce", strconv.FormatInt(p.nextNonce(), 10))
	body := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("poloniex: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Key", p.APIKey)
	req.Header.Set("Sign", Sign(p.Secret, body))

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	if err := client.DoJSON(ctx, req, out); err != nil {
		return fmt.Errorf("poloniex: %s: %w", command, err)
	}
	if err := errorBody(*out); err != nil {
		return fmt.Errorf("poloniex: %s: %w", command, err)
	}
	return nil
}

// nextNonce is strictly increasing across calls, including concurrent ones.
func (p *PoloniexTrading) nextNonce() int64 {
	for {
		prev := p.nonce.Load()
		next := time.Now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if p.nonce.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// Sign returns the hex HMAC-SHA512 of body keyed by secret.
func Sign(secret, body string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
