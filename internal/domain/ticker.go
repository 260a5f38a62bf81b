package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerFields are the raw per-pair values reported by the upstream feed.
type TickerFields struct {
	Last          decimal.Decimal
	LowestAsk     decimal.Decimal
	HighestBid    decimal.Decimal
	High24h       decimal.Decimal
	Low24h        decimal.Decimal
	BaseVolume    decimal.Decimal
	QuoteVolume   decimal.Decimal
	PercentChange decimal.Decimal
	Frozen        bool
}

// UpstreamTickers is one complete response of the upstream ticker feed, keyed
// by exchange-native pair identifier.
type UpstreamTickers struct {
	AsOf    time.Time
	Tickers map[string]TickerFields
}

// Ticker is the last known market state of one pair. It is a value: updates
// replace it, they never modify it.
type Ticker struct {
	Pair Pair
	TickerFields
	ObservedAt time.Time
}

// TickerQuote is what readers receive: a ticker plus its staleness information.
type TickerQuote struct {
	Ticker              Ticker
	Age                 time.Duration
	Stale               bool
	ConsecutiveFailures int
	LastRefreshAt       time.Time
}
