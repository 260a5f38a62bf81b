package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticker-service/internal/application"
	"ticker-service/internal/config"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitAPI_FakeProviderServesTickers(t *testing.T) {
	t.Setenv("PROVIDER", "fake")
	t.Setenv("PAIRS_SOURCE", "env")
	t.Setenv("PAIRS", "BTC_ETH,usdt-btc")
	t.Setenv("QUOTA_BACKEND", "none")
	t.Setenv("REFRESH_INTERVAL_MS", "20")

	api, cleanup, err := InitAPI(context.Background())
	require.NoError(t, err)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		api.Refresher.Start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		api.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		return rec.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	api.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/poloniex/tickers?tradingPair=USDT_BTC", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestInitAPI_InvalidConfig(t *testing.T) {
	t.Setenv("BACKOFF_BASE_MS", "5000")
	t.Setenv("BACKOFF_MAX_MS", "1000")
	_, _, err := InitAPI(context.Background())
	require.Error(t, err)
}

func TestProvideRegistry_RejectsEmpty(t *testing.T) {
	_, err := ProvideRegistry(context.Background(), envPairs{" ", ""}, zap.NewNop())
	require.ErrorIs(t, err, domain.ErrEmptyRegistry)
}

func TestProvidePairSource(t *testing.T) {
	src, err := ProvidePairSource(config.Config{PairsSource: "env", Pairs: []string{"BTC_ETH"}})
	require.NoError(t, err)
	got, err := src.ListPairs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"BTC_ETH"}, got)

	src, err = ProvidePairSource(config.Config{PairsSource: "pg", DatabaseURL: "postgres://x"})
	require.NoError(t, err)
	require.IsType(t, pgPairs{}, src)

	_, err = ProvidePairSource(config.Config{PairsSource: "file"})
	require.Error(t, err)
}

func TestProvideTickerSource(t *testing.T) {
	reg, err := domain.NewRegistry([]string{"BTC_ETH"})
	require.NoError(t, err)

	src, cleanup, err := ProvideTickerSource(context.Background(), config.Config{Provider: "fake"}, reg)
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, &provider.Fake{}, src)

	src, _, err = ProvideTickerSource(context.Background(), config.Config{Provider: "poloniex", PoloniexAPIBase: "https://poloniex.com"}, reg)
	require.NoError(t, err)
	require.IsType(t, &provider.PoloniexProvider{}, src)

	_, _, err = ProvideTickerSource(context.Background(), config.Config{Provider: "kraken"}, reg)
	require.Error(t, err)
}

func TestProvideQuota(t *testing.T) {
	q, cleanup, err := ProvideQuota(config.Config{QuotaBackend: "none"}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	require.IsType(t, application.NoopQuota{}, q)

	_, _, err = ProvideQuota(config.Config{QuotaBackend: "memcached"}, zap.NewNop())
	require.Error(t, err)
}

func TestProvideFeedRunner_RejectsSelfLoop(t *testing.T) {
	_, err := ProvideFeedRunner(config.Config{Provider: "grpc"}, nil, zap.NewNop())
	require.ErrorIs(t, err, errFeedLoop)
}
