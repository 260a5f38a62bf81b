//go:build wireinject

package bootstrap

import (
	"context"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvidePairSource,
	ProvideRegistry,
	ProvideTickerSource,
)

// API injector: builds the HTTP handler and refresher + Cleanup
func InitAPI(ctx context.Context) (*API, func(), error) {
	wire.Build(
		infraSet,
		ProvideTickerStore,
		ProvideQuota,
		ProvideAccount,
		ProvideTickerService,
		ProvideRefresher,
		ProvideHandler,
		ProvideAPI,
	)
	return nil, nil, nil
}

// Worker injector: builds the gRPC feed runner + Cleanup
func InitWorker(ctx context.Context) (FeedRunner, func(), error) {
	wire.Build(
		infraSet,
		ProvideFeedRunner,
	)
	return nil, nil, nil
}
