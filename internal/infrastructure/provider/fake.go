package provider

import (
	"context"
	"sync/atomic"
	"time"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Ensure Fake implements application.TickerSource.
var _ application.TickerSource = (*Fake)(nil)

// Fake reports the same ticker for every configured pair. Calls counts
// FetchTickers invocations.
type Fake struct {
	pairs []domain.Pair
	price decimal.Decimal
	Calls atomic.Int64
}

func NewFake(pairs []domain.Pair, price decimal.Decimal) *Fake {
	return &Fake{pairs: append([]domain.Pair(nil), pairs...), price: price}
}

func (f *Fake) FetchTickers(_ context.Context) (domain.UpstreamTickers, error) {
	f.Calls.Add(1)
	spread := f.price.Div(decimal.NewFromInt(1000))
	fields := domain.TickerFields{
		Last:          f.price,
		LowestAsk:     f.price.Add(spread),
		HighestBid:    f.price.Sub(spread),
		High24h:       f.price.Add(spread.Mul(decimal.NewFromInt(10))),
		Low24h:        f.price.Sub(spread.Mul(decimal.NewFromInt(10))),
		BaseVolume:    decimal.NewFromInt(100),
		QuoteVolume:   f.price.Mul(decimal.NewFromInt(100)),
		PercentChange: decimal.Zero,
	}
	out := domain.UpstreamTickers{
		AsOf:    time.Now().UTC(),
		Tickers: make(map[string]domain.TickerFields, len(f.pairs)),
	}
	for _, p := range f.pairs {
		out.Tickers[string(p)] = fields
	}
	return out, nil
}

var _ application.AccountClient = (*FakeAccount)(nil)

// FakeAccount serves a fixed account for local runs.
type FakeAccount struct{}

func (FakeAccount) Balances(_ context.Context) (domain.Balances, error) {
	return domain.Balances{
		"BTC":  decimal.RequireFromString("0.5"),
		"USDT": decimal.RequireFromString("1250.00"),
	}, nil
}

func (FakeAccount) OpenOrders(_ context.Context) ([]domain.OpenOrder, error) {
	return []domain.OpenOrder{}, nil
}
