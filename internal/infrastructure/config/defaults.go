package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPairs           = "BTC_USD,BTC_ETH,BTC_XMR,BTC_LTC,USDT_BTC,USDT_ETH"
	DefaultRefreshInterval = 5 * time.Second
	DefaultBackoffBase     = 1 * time.Second
	DefaultBackoffMax      = 60 * time.Second
	DefaultMaxStaleness    = 60 * time.Second
	DefaultUpstreamTimeout = 4 * time.Second
	DefaultQuotaLimit      = 6
	DefaultQuotaWindow     = 1 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
)
