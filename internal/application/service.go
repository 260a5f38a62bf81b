package application

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"ticker-service/internal/domain"

	"go.uber.org/zap"
)

const defaultUpstreamTimeout = 4 * time.Second

type TickerService struct {
	registry        *domain.Registry
	store           *TickerStore
	source          TickerSource
	account         AccountClient
	quota           QuotaGuard
	quotaKey        string
	clock           Clock
	maxStaleness    time.Duration
	upstreamTimeout time.Duration
	log             *zap.Logger

	// set while a FetchTickers call is running
	fetching atomic.Bool
}

type Option func(*TickerService)

func WithClock(c Clock) Option { return func(s *TickerService) { s.clock = c } }

// WithMaxStaleness sets the age above which tickers are tagged stale. Zero
// disables tagging.
func WithMaxStaleness(d time.Duration) Option {
	return func(s *TickerService) { s.maxStaleness = d }
}

func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *TickerService) { s.upstreamTimeout = d }
}

func WithQuota(g QuotaGuard, key string) Option {
	return func(s *TickerService) { s.quota, s.quotaKey = g, key }
}

func WithAccount(c AccountClient) Option { return func(s *TickerService) { s.account = c } }

func WithLogger(l *zap.Logger) Option { return func(s *TickerService) { s.log = l } }

func NewTickerService(registry *domain.Registry, store *TickerStore, source TickerSource, opts ...Option) *TickerService {
	s := &TickerService{
		registry: registry,
		store:    store,
		source:   source,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.upstreamTimeout <= 0 {
		s.upstreamTimeout = defaultUpstreamTimeout
	}
	if s.quota == nil {
		s.quota = NoopQuota{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// GetTickerValue returns the cached ticker for rawPair. Unknown pairs fail with
// domain.ErrInvalidPair whatever the cache holds; known pairs that were never
// published fail with domain.ErrNoDataYet. Old data is returned tagged Stale.
func (s *TickerService) GetTickerValue(ctx context.Context, rawPair string) (domain.TickerQuote, error) {
	pair, err := s.registry.Parse(rawPair)
	if err != nil {
		return domain.TickerQuote{}, err
	}
	r, ok := s.store.Read(pair)
	if !ok {
		return domain.TickerQuote{}, fmt.Errorf("%w: %s", domain.ErrNoDataYet, pair)
	}
	return s.quote(r), nil
}

// Tickers returns every published registry pair in registry order.
func (s *TickerService) Tickers(ctx context.Context) []domain.TickerQuote {
	out := make([]domain.TickerQuote, 0, s.registry.Len())
	for _, p := range s.registry.Pairs() {
		if r, ok := s.store.Read(p); ok {
			out = append(out, s.quote(r))
		}
	}
	return out
}

func (s *TickerService) Status() StoreStatus { return s.store.Status() }

func (s *TickerService) Ready() bool { return s.store.Ready() }

func (s *TickerService) Balances(ctx context.Context) (domain.Balances, error) {
	if s.account == nil {
		return nil, ErrAccountNotConfigured
	}
	return s.account.Balances(ctx)
}

func (s *TickerService) OpenOrders(ctx context.Context) ([]domain.OpenOrder, error) {
	if s.account == nil {
		return nil, ErrAccountNotConfigured
	}
	return s.account.OpenOrders(ctx)
}

func (s *TickerService) quote(r TickerRead) domain.TickerQuote {
	return domain.TickerQuote{
		Ticker:              r.Ticker,
		Age:                 r.Age,
		Stale:               s.maxStaleness > 0 && r.Age > s.maxStaleness,
		ConsecutiveFailures: r.ConsecutiveFailures,
		LastRefreshAt:       r.LastSuccessAt,
	}
}
