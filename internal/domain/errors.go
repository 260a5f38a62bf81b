package domain

import "errors"

var (
	ErrInvalidPair   = errors.New("invalid trading pair")
	ErrNoDataYet     = errors.New("no ticker data yet")
	ErrEmptyRegistry = errors.New("pair registry is empty")

	// Upstream failures. They are recorded by the refresh cycle and never
	// returned to ticker readers.
	ErrUpstreamTransport   = errors.New("upstream transport error")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamMalformed   = errors.New("upstream malformed response")
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
)

// IsUpstreamError reports whether err belongs to the upstream failure family.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamTransport) ||
		errors.Is(err, ErrUpstreamTimeout) ||
		errors.Is(err, ErrUpstreamMalformed) ||
		errors.Is(err, ErrUpstreamRateLimited)
}
