package application

import "context"

// QuotaGuard enforces a call quota on the upstream API, shared by every
// process using the same key.
type QuotaGuard interface {
	// Allow returns true if one more call fits in the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

// NoopQuota always allows; used when no quota backend is configured.
type NoopQuota struct{}

func (NoopQuota) Allow(context.Context, string) (bool, error) { return true, nil }
