package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"ticker-service/internal/domain"

	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeSource replays queued responses; the last one repeats.
type fakeSource struct {
	mu    sync.Mutex
	resps []fakeResp
	calls int
	block bool
}

type fakeResp struct {
	tickers domain.UpstreamTickers
	err     error
}

func (f *fakeSource) push(t domain.UpstreamTickers, err error) {
	f.mu.Lock()
	f.resps = append(f.resps, fakeResp{tickers: t, err: err})
	f.mu.Unlock()
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) FetchTickers(ctx context.Context) (domain.UpstreamTickers, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	var r fakeResp
	if len(f.resps) > 0 {
		r = f.resps[0]
		if len(f.resps) > 1 {
			f.resps = f.resps[1:]
		}
	}
	f.mu.Unlock()
	if block {
		// ignores ctx on purpose
		time.Sleep(time.Second)
	}
	return r.tickers, r.err
}

type fakeQuota struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeQuota) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

type fakeAccount struct {
	balances domain.Balances
	orders   []domain.OpenOrder
	err      error
}

func (f *fakeAccount) Balances(context.Context) (domain.Balances, error) { return f.balances, f.err }
func (f *fakeAccount) OpenOrders(context.Context) ([]domain.OpenOrder, error) {
	return f.orders, f.err
}

func fields(last string) domain.TickerFields {
	return domain.TickerFields{
		Last:          decimal.RequireFromString(last),
		High24h:       decimal.RequireFromString(last).Mul(decimal.RequireFromString("1.1")),
		Low24h:        decimal.RequireFromString(last).Mul(decimal.RequireFromString("0.9")),
		BaseVolume:    decimal.NewFromInt(1000),
		QuoteVolume:   decimal.NewFromInt(10),
		PercentChange: decimal.RequireFromString("-0.0125"),
	}
}

func upstream(asOf time.Time, kv ...string) domain.UpstreamTickers {
	out := domain.UpstreamTickers{AsOf: asOf, Tickers: map[string]domain.TickerFields{}}
	for i := 0; i+1 < len(kv); i += 2 {
		out.Tickers[kv[i]] = fields(kv[i+1])
	}
	return out
}

func mustRegistry(pairs ...string) *domain.Registry {
	r, err := domain.NewRegistry(pairs)
	if err != nil {
		panic(err)
	}
	return r
}
