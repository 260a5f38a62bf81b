package worker

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy decides the wait before the next refresh cycle. After a success
// it waits the refresh interval; after failures it backs off exponentially
// from base, doubling each time, never above max.
type retryPolicy struct {
	interval time.Duration
	max      time.Duration
	exp      *backoff.ExponentialBackOff
}

func newRetryPolicy(interval, base, max time.Duration) *retryPolicy {
	if max < base {
		max = base
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = base
	exp.MaxInterval = max
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	return &retryPolicy{interval: interval, max: max, exp: exp}
}

func (p *retryPolicy) Next(ok bool) time.Duration {
	if ok {
		p.exp.Reset()
		return p.interval
	}
	d := p.exp.NextBackOff()
	if d == backoff.Stop || d > p.max {
		d = p.max
	}
	return d
}
