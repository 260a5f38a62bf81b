package application

import (
	"context"

	"ticker-service/internal/domain"
)

// TickerSource is the upstream ticker feed. One call returns the full ticker
// set known to the exchange.
type TickerSource interface {
	FetchTickers(ctx context.Context) (domain.UpstreamTickers, error)
}

type AccountClient interface {
	Balances(ctx context.Context) (domain.Balances, error)
	OpenOrders(ctx context.Context) ([]domain.OpenOrder, error)
}

// PairSource lists the configured trading pairs. It is read once at startup.
type PairSource interface {
	ListPairs(ctx context.Context) ([]string, error)
}
