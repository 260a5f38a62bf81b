package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ticker-service/internal/application"
	"ticker-service/internal/config"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/grpc/feedclient"
	"ticker-service/internal/infrastructure/grpc/feedserver"
	httpserver "ticker-service/internal/infrastructure/http"
	"ticker-service/internal/infrastructure/httpx"
	"ticker-service/internal/infrastructure/logx"
	"ticker-service/internal/infrastructure/pg"
	"ticker-service/internal/infrastructure/provider"
	redisstore "ticker-service/internal/infrastructure/redis"
	"ticker-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const quotaKey = "poloniex"

var fakePrice = decimal.RequireFromString("0.032")

// API is everything cmd/api runs: the HTTP handler and the refresher feeding it.
type API struct {
	Config    config.Config
	Handler   http.Handler
	Refresher *worker.Refresher
}

// FeedRunner serves the upstream ticker source over gRPC until ctx is done.
type FeedRunner func(ctx context.Context) error

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

type envPairs []string

func (e envPairs) ListPairs(context.Context) ([]string, error) { return e, nil }

type pgPairs struct{ url string }

func (p pgPairs) ListPairs(ctx context.Context) ([]string, error) { return pg.LoadPairs(ctx, p.url) }

func ProvidePairSource(cfg config.Config) (application.PairSource, error) {
	switch cfg.PairsSource {
	case "", "env":
		return envPairs(cfg.Pairs), nil
	case "pg":
		return pgPairs{url: cfg.DatabaseURL}, nil
	default:
		return nil, fmt.Errorf("unsupported PAIRS_SOURCE=%q", cfg.PairsSource)
	}
}

func ProvideRegistry(ctx context.Context, src application.PairSource, log *zap.Logger) (*domain.Registry, error) {
	raw, err := src.ListPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pairs: %w", err)
	}
	reg, err := domain.NewRegistry(raw)
	if err != nil {
		return nil, err
	}
	log.Info("pair_registry_loaded", zap.Int("pairs", reg.Len()))
	return reg, nil
}

func ProvideTickerStore() *application.TickerStore { return application.NewTickerStore(nil) }

func upstreamClient(cfg config.Config) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{Timeout: cfg.UpstreamTimeout}}
}

func ProvideTickerSource(ctx context.Context, cfg config.Config, reg *domain.Registry) (application.TickerSource, func(), error) {
	switch cfg.Provider {
	case "poloniex":
		return &provider.PoloniexProvider{BaseURL: cfg.PoloniexAPIBase, Client: upstreamClient(cfg)}, func() {}, nil
	case "grpc":
		c, cleanup, err := feedclient.New(ctx, cfg.GRPCTarget)
		if err != nil {
			return nil, func() {}, fmt.Errorf("dial ticker feed: %w", err)
		}
		return c, cleanup, nil
	case "", "fake":
		return provider.NewFake(reg.Pairs(), fakePrice), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

func ProvideAccount(cfg config.Config) application.AccountClient {
	if cfg.Provider == "" || cfg.Provider == "fake" {
		return provider.FakeAccount{}
	}
	return &provider.PoloniexTrading{
		BaseURL: cfg.PoloniexAPIBase,
		APIKey:  cfg.PoloniexAPIKey,
		Secret:  cfg.PoloniexAPISecret,
		Client:  upstreamClient(cfg),
	}
}

func ProvideQuota(cfg config.Config, log *zap.Logger) (application.QuotaGuard, func(), error) {
	switch cfg.QuotaBackend {
	case "", "none":
		return application.NoopQuota{}, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		return redisstore.NewQuota(client, cfg.QuotaLimit, cfg.QuotaWindow), cleanup, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported QUOTA_BACKEND=%q", cfg.QuotaBackend)
	}
}

func ProvideTickerService(
	cfg config.Config,
	reg *domain.Registry,
	store *application.TickerStore,
	src application.TickerSource,
	quota application.QuotaGuard,
	account application.AccountClient,
	log *zap.Logger,
) *application.TickerService {
	return application.NewTickerService(reg, store, src,
		application.WithMaxStaleness(cfg.MaxStaleness),
		application.WithUpstreamTimeout(cfg.UpstreamTimeout),
		application.WithQuota(quota, quotaKey),
		application.WithAccount(account),
		application.WithLogger(log),
	)
}

func ProvideRefresher(cfg config.Config, svc *application.TickerService, log *zap.Logger) *worker.Refresher {
	return &worker.Refresher{
		Service:     svc,
		Interval:    cfg.RefreshInterval,
		BackoffBase: cfg.BackoffBase,
		BackoffMax:  cfg.BackoffMax,
		Log:         log,
	}
}

func ProvideHandler(svc *application.TickerService) http.Handler {
	return httpserver.NewRouter(httpserver.NewServer(svc))
}

func ProvideAPI(cfg config.Config, h http.Handler, r *worker.Refresher) *API {
	return &API{Config: cfg, Handler: h, Refresher: r}
}

var errFeedLoop = errors.New("PROVIDER=grpc would make the feed server read from itself")

// ProvideFeedRunner returns the gRPC feed server for cmd/worker.
func ProvideFeedRunner(cfg config.Config, src application.TickerSource, log *zap.Logger) (FeedRunner, error) {
	if cfg.Provider == "grpc" {
		return nil, errFeedLoop
	}
	addr := cfg.GRPCAddr
	return func(ctx context.Context) error {
		return feedserver.RunServer(ctx, addr, feedserver.NewServer(src, log), log)
	}, nil
}
