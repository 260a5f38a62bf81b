package application

import "context"

// Worker represents a long-running background loop.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}

// Refresher runs one refresh cycle of the ticker cache.
type Refresher interface {
	Refresh(ctx context.Context) (RefreshResult, error)
}

var _ Refresher = (*TickerService)(nil)
