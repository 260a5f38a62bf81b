package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ticker-service/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RefreshResult describes one successful refresh cycle.
type RefreshResult struct {
	AsOf     time.Time
	Updated  int
	Retained []domain.Pair
	Ignored  int
}

type fetchResult struct {
	tickers domain.UpstreamTickers
	err     error
}

// Refresh runs one refresh cycle: fetch the upstream tickers under the
// upstream timeout, validate them, merge them over the current snapshot and
// publish. Any upstream failure is recorded in the store and returned; the
// published tickers are left untouched. A cancelled ctx is not a failure.
func (s *TickerService) Refresh(ctx context.Context) (RefreshResult, error) {
	res, err := s.refresh(ctx)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return RefreshResult{}, fmt.Errorf("refresh aborted: %w", ctx.Err())
	}
	s.store.RecordFailure()
	return RefreshResult{}, err
}

func (s *TickerService) refresh(ctx context.Context) (RefreshResult, error) {
	allowed, err := s.quota.Allow(ctx, s.quotaKey)
	switch {
	case err != nil:
		s.log.Warn("quota_check_failed", zap.String("key", s.quotaKey), zap.Error(err))
	case !allowed:
		return RefreshResult{}, fmt.Errorf("%w: call quota %q exhausted", domain.ErrUpstreamRateLimited, s.quotaKey)
	}

	up, err := s.fetch(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	return s.publish(up)
}

// fetch bounds the upstream call by the upstream timeout even when the source
// ignores its context. A source that ignores it keeps its goroutine until it
// returns; at most one such call is outstanding, later cycles fail with
// ErrUpstreamTimeout without calling the source.
func (s *TickerService) fetch(ctx context.Context) (domain.UpstreamTickers, error) {
	if !s.fetching.CompareAndSwap(false, true) {
		return domain.UpstreamTickers{}, fmt.Errorf("%w: previous fetch still outstanding", domain.ErrUpstreamTimeout)
	}
	callCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		t, err := s.source.FetchTickers(callCtx)
		s.fetching.Store(false)
		done <- fetchResult{tickers: t, err: err}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			return r.tickers, nil
		}
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.UpstreamTickers{}, fmt.Errorf("%w after %s: %v", domain.ErrUpstreamTimeout, s.upstreamTimeout, r.err)
		}
		if !domain.IsUpstreamError(r.err) {
			return domain.UpstreamTickers{}, fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, r.err)
		}
		return domain.UpstreamTickers{}, r.err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return domain.UpstreamTickers{}, ctx.Err()
		}
		return domain.UpstreamTickers{}, fmt.Errorf("%w after %s", domain.ErrUpstreamTimeout, s.upstreamTimeout)
	}
}

func (s *TickerService) publish(up domain.UpstreamTickers) (RefreshResult, error) {
	now := s.clock.Now()
	asOf := up.AsOf
	if asOf.IsZero() || asOf.After(now) {
		asOf = now
	}

	next := s.store.Snapshot()
	seen := make(map[domain.Pair]struct{}, s.registry.Len())
	ignored := 0
	for native, fields := range up.Tickers {
		pair, ok := domain.NormalizePair(native)
		if !ok || !s.registry.Contains(pair) {
			ignored++
			continue
		}
		if _, dup := seen[pair]; dup {
			return RefreshResult{}, fmt.Errorf("%w: duplicate entry for %s", domain.ErrUpstreamMalformed, pair)
		}
		if err := validateFields(fields); err != nil {
			return RefreshResult{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamMalformed, native, err)
		}
		next[pair] = domain.Ticker{Pair: pair, TickerFields: fields, ObservedAt: asOf}
		seen[pair] = struct{}{}
	}
	if len(seen) == 0 {
		return RefreshResult{}, fmt.Errorf("%w: response has none of the %d configured pairs", domain.ErrUpstreamMalformed, s.registry.Len())
	}

	var retained []domain.Pair
	for p := range next {
		if _, ok := seen[p]; !ok {
			retained = append(retained, p)
		}
	}
	sort.Slice(retained, func(i, j int) bool { return retained[i] < retained[j] })

	s.store.Publish(next)
	return RefreshResult{AsOf: asOf, Updated: len(seen), Retained: retained, Ignored: ignored}, nil
}

func validateFields(f domain.TickerFields) error {
	nonNegative := map[string]decimal.Decimal{
		"last":        f.Last,
		"lowestAsk":   f.LowestAsk,
		"highestBid":  f.HighestBid,
		"high24hr":    f.High24h,
		"low24hr":     f.Low24h,
		"baseVolume":  f.BaseVolume,
		"quoteVolume": f.QuoteVolume,
	}
	for name, v := range nonNegative {
		if v.IsNegative() {
			return fmt.Errorf("negative %s %s", name, v)
		}
	}
	if !f.High24h.IsZero() && !f.Low24h.IsZero() && f.High24h.LessThan(f.Low24h) {
		return fmt.Errorf("high24hr %s below low24hr %s", f.High24h, f.Low24h)
	}
	return nil
}
