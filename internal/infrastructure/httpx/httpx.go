package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ticker-service/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

// Client performs JSON requests against the exchange and maps failures onto
// the upstream error classes of the domain package.
type Client struct {
	HTTP *http.Client
	// Retries is the number of extra attempts made after a network error or
	// a 5xx response. Zero means a single attempt.
	Retries uint64
}

func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any) error {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req = req.WithContext(ctx)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(fmt.Errorf("%w: rewind body: %v", domain.ErrUpstreamTransport, err))
			}
			req.Body = body
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, err)
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return backoff.Permanent(fmt.Errorf("%w: status %d", domain.ErrUpstreamRateLimited, resp.StatusCode))
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: server error %d", domain.ErrUpstreamTransport, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("%w: status %d", domain.ErrUpstreamTransport, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) && ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return backoff.Permanent(fmt.Errorf("%w: decode: %v", domain.ErrUpstreamMalformed, err))
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, c.Retries), ctx)
	return backoff.Retry(op, policy)
}
