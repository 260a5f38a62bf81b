package feedclient

import (
	"context"
	"fmt"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/grpc/tickerpb"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client reads tickers from a remote feed server.
type Client struct {
	conn *grpc.ClientConn
	cli  tickerpb.TickerFeedClient
}

var _ application.TickerSource = (*Client)(nil)

func New(ctx context.Context, target string, opts ...grpc.DialOption) (*Client, func(), error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.DialContext(ctx, target, opts...)
	if err != nil {
		return nil, nil, err
	}
	return &Client{conn: conn, cli: tickerpb.NewTickerFeedClient(conn)}, func() { _ = conn.Close() }, nil
}

func (c *Client) FetchTickers(ctx context.Context) (domain.UpstreamTickers, error) {
	resp, err := c.cli.FetchTickers(ctx, &emptypb.Empty{})
	if err != nil {
		return domain.UpstreamTickers{}, classify(err)
	}
	return tickerpb.Decode(resp)
}

func classify(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, err)
	}
	switch st.Code() {
	case codes.Canceled:
		return fmt.Errorf("feed: %w", context.Canceled)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", domain.ErrUpstreamTimeout, st.Message())
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", domain.ErrUpstreamRateLimited, st.Message())
	case codes.DataLoss:
		return fmt.Errorf("%w: %s", domain.ErrUpstreamMalformed, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", domain.ErrUpstreamTransport, st.Code(), st.Message())
	}
}
