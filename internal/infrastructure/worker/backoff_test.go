package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_BacksOffUpToCapAndResets(t *testing.T) {
	const (
		interval = 5 * time.Second
		base     = 100 * time.Millisecond
		max      = 250 * time.Millisecond
	)
	p := newRetryPolicy(interval, base, max)

	var delays []time.Duration
	for i := 0; i < 3; i++ {
		delays = append(delays, p.Next(false))
	}
	require.Equal(t, []time.Duration{base, 2 * base, max}, delays)
	for i := 1; i < len(delays); i++ {
		require.GreaterOrEqual(t, delays[i], delays[i-1])
		require.LessOrEqual(t, delays[i], max)
	}

	require.Equal(t, interval, p.Next(true))
	require.Equal(t, base, p.Next(false))
}

func TestRetryPolicy_StaysAtCap(t *testing.T) {
	p := newRetryPolicy(time.Second, 10*time.Millisecond, 40*time.Millisecond)
	var last time.Duration
	for i := 0; i < 50; i++ {
		d := p.Next(false)
		require.LessOrEqual(t, d, 40*time.Millisecond)
		require.GreaterOrEqual(t, d, last)
		last = d
	}
	require.Equal(t, 40*time.Millisecond, last)
}

func TestRetryPolicy_MaxBelowBase(t *testing.T) {
	p := newRetryPolicy(time.Second, 50*time.Millisecond, 10*time.Millisecond)
	require.Equal(t, 50*time.Millisecond, p.Next(false))
	require.Equal(t, 50*time.Millisecond, p.Next(false))
}
