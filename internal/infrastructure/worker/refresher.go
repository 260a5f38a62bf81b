package worker

import (
	"context"
	"sync/atomic"
	"time"

	"ticker-service/internal/application"

	"go.uber.org/zap"
)

var _ application.Worker = (*Refresher)(nil)

type State int32

const (
	StateIdle State = iota
	StateRefreshing
	StatePublished
	StateFailed
	StateWaiting
	StateBackoffWait
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRefreshing:
		return "refreshing"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	case StateWaiting:
		return "waiting"
	case StateBackoffWait:
		return "backoff_wait"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Cycle is reported to OnCycle after every completed refresh.
type Cycle struct {
	Result application.RefreshResult
	Err    error
	Delay  time.Duration
}

// Refresher keeps the ticker cache fresh. The first cycle runs as soon as
// Start is called; later cycles follow the retry policy.
type Refresher struct {
	Service application.Refresher

	Interval    time.Duration
	BackoffBase time.Duration
	BackoffMax  time.Duration
	Log         *zap.Logger
	OnCycle     func(Cycle)

	state atomic.Int32
}

func (w *Refresher) State() State { return State(w.state.Load()) }

func (w *Refresher) setState(s State) { w.state.Store(int32(s)) }

func (w *Refresher) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.Interval <= 0 {
		w.Interval = 5 * time.Second
	}
	if w.BackoffBase <= 0 {
		w.BackoffBase = time.Second
	}
	if w.BackoffMax <= 0 {
		w.BackoffMax = time.Minute
	}
	policy := newRetryPolicy(w.Interval, w.BackoffBase, w.BackoffMax)

	log.Info("refresher_started",
		zap.Duration("interval", w.Interval),
		zap.Duration("backoff_base", w.BackoffBase),
		zap.Duration("backoff_max", w.BackoffMax),
	)
	defer func() {
		w.setState(StateStopped)
		log.Info("refresher_stopped")
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		w.setState(StateRefreshing)
		res, err := w.Service.Refresh(ctx)
		if ctx.Err() != nil {
			return
		}

		delay := policy.Next(err == nil)
		if err != nil {
			failures++
			w.setState(StateFailed)
			log.Warn("refresh_failed",
				zap.Error(err),
				zap.Int("consecutive_failures", failures),
				zap.Duration("retry_in", delay),
			)
			w.setState(StateBackoffWait)
		} else {
			failures = 0
			w.setState(StatePublished)
			log.Debug("refresh_published",
				zap.Int("updated", res.Updated),
				zap.Int("ignored", res.Ignored),
				zap.Time("as_of", res.AsOf),
			)
			if len(res.Retained) > 0 {
				log.Warn("refresh_pairs_missing", zap.Any("retained", res.Retained))
			}
			w.setState(StateWaiting)
		}
		if w.OnCycle != nil {
			w.OnCycle(Cycle{Result: res, Err: err, Delay: delay})
		}
		timer.Reset(delay)
	}
}
