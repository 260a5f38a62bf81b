package application

import (
	"sync/atomic"
	"time"

	"ticker-service/internal/domain"
)

// storeState is never modified once it is reachable through TickerStore.state.
type storeState struct {
	tickers       map[domain.Pair]domain.Ticker
	lastSuccessAt time.Time
	failures      int
}

// TickerStore holds the latest ticker per pair. Reads load one pointer and
// never block; writes build a new state and swap it in.
type TickerStore struct {
	state atomic.Pointer[storeState]
	clock Clock
}

type TickerRead struct {
	Ticker              domain.Ticker
	Age                 time.Duration
	ConsecutiveFailures int
	LastSuccessAt       time.Time
}

type StoreStatus struct {
	LastSuccessAt       time.Time
	ConsecutiveFailures int
	Pairs               int
}

func NewTickerStore(clock Clock) *TickerStore {
	if clock == nil {
		clock = realClock{}
	}
	s := &TickerStore{clock: clock}
	s.state.Store(&storeState{tickers: map[domain.Pair]domain.Ticker{}})
	return s
}

// Publish replaces the whole ticker map, stamps the refresh time and resets
// the failure count. Readers see either the previous map or this one. The
// new state does not depend on the old one, so a plain Store is enough.
func (s *TickerStore) Publish(tickers map[domain.Pair]domain.Ticker) {
	next := make(map[domain.Pair]domain.Ticker, len(tickers))
	for p, t := range tickers {
		next[p] = t
	}
	s.state.Store(&storeState{tickers: next, lastSuccessAt: s.clock.Now()})
}

// RecordFailure increments the consecutive failure count and returns it.
// Published tickers are left untouched.
func (s *TickerStore) RecordFailure() int {
	for {
		cur := s.state.Load()
		next := &storeState{
			tickers:       cur.tickers,
			lastSuccessAt: cur.lastSuccessAt,
			failures:      cur.failures + 1,
		}
		if s.state.CompareAndSwap(cur, next) {
			return next.failures
		}
	}
}

// Read returns the ticker for p with its age. ok is false if no refresh has
// ever published p.
func (s *TickerStore) Read(p domain.Pair) (TickerRead, bool) {
	st := s.state.Load()
	t, ok := st.tickers[p]
	if !ok {
		return TickerRead{}, false
	}
	age := s.clock.Now().Sub(t.ObservedAt)
	if age < 0 {
		age = 0
	}
	return TickerRead{
		Ticker:              t,
		Age:                 age,
		ConsecutiveFailures: st.failures,
		LastSuccessAt:       st.lastSuccessAt,
	}, true
}

// Snapshot returns a copy of the published tickers.
func (s *TickerStore) Snapshot() map[domain.Pair]domain.Ticker {
	st := s.state.Load()
	out := make(map[domain.Pair]domain.Ticker, len(st.tickers))
	for p, t := range st.tickers {
		out[p] = t
	}
	return out
}

func (s *TickerStore) Status() StoreStatus {
	st := s.state.Load()
	return StoreStatus{
		LastSuccessAt:       st.lastSuccessAt,
		ConsecutiveFailures: st.failures,
		Pairs:               len(st.tickers),
	}
}

// Ready reports whether at least one refresh has been published.
func (s *TickerStore) Ready() bool {
	return !s.state.Load().lastSuccessAt.IsZero()
}
