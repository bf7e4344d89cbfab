package provider

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/fallback"
	"FinDash/internal/service/upstream"
	xhttp "FinDash/pkg/http"
	"FinDash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMetrics struct {
	upstream map[string]string
}

func (r *recordingMetrics) RecordCycle(string, float64)      {}
func (r *recordingMetrics) RecordCategory(string, bool, int) {}
func (r *recordingMetrics) RecordSinkError(string)           {}
func (r *recordingMetrics) RecordStaleDropped()              {}

func (r *recordingMetrics) RecordUpstream(source, result string, _ float64) {
	r.upstream[source] = result
}

func setup(t *testing.T, currencyStatus int, cryptoStatus int) (*Provider, *recordingMetrics) {
	t.Helper()
	cur := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(currencyStatus)
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.85,"GBP":0.73}}`))
	}))
	t.Cleanup(cur.Close)
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(cryptoStatus)
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":60000,"market_cap":1.2e12,"market_cap_rank":1}]`))
	}))
	t.Cleanup(gecko.Close)
	lore := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(lore.Close)

	m := &recordingMetrics{upstream: map[string]string{}}
	hc := xhttp.NewClient()
	gen := fallback.NewGenerator(fallback.WithRand(rand.New(rand.NewSource(1))))
	chain := upstream.NewCryptoChain(logger.Nop(), m,
		upstream.NewCoinGeckoClient(hc, gecko.URL, time.Second, 50),
		upstream.NewCoinloreClient(hc, lore.URL, time.Second, 50))
	p := New(logger.Nop(), m, gen, upstream.NewCurrencyClient(hc, cur.URL, time.Second), chain)
	return p, m
}

func TestProvider_LiveFetches(t *testing.T) {
	p, m := setup(t, http.StatusOK, http.StatusOK)
	ctx := context.Background()

	cur, err := p.FetchLiveCurrencies(ctx)
	require.NoError(t, err)
	assert.Len(t, cur, 2)

	crypto, err := p.FetchLiveCrypto(ctx)
	require.NoError(t, err)
	require.Len(t, crypto, 1)
	assert.Equal(t, "BTC", crypto[0].Symbol)

	assert.Equal(t, "ok", m.upstream[upstream.SourceExchangeRate])
	assert.Equal(t, "ok", m.upstream[upstream.SourceCoinGecko])
	assert.NotContains(t, m.upstream, upstream.SourceCoinlore)
}

func TestProvider_FailuresDoNotFallBack(t *testing.T) {
	p, m := setup(t, http.StatusInternalServerError, http.StatusTooManyRequests)
	ctx := context.Background()

	cur, err := p.FetchLiveCurrencies(ctx)
	assert.Nil(t, cur)
	assert.ErrorIs(t, err, models.ErrUpstreamHTTP)

	crypto, err := p.FetchLiveCrypto(ctx)
	assert.Nil(t, crypto)
	assert.ErrorIs(t, err, models.ErrUpstreamHTTP)

	assert.Equal(t, "UpstreamHttpError", m.upstream[upstream.SourceCoinGecko])
	assert.Equal(t, "UpstreamHttpError", m.upstream[upstream.SourceCoinlore])
}

func TestProvider_CompaniesAndNewsFromGenerator(t *testing.T) {
	p, _ := setup(t, http.StatusOK, http.StatusOK)

	companies, err := p.FetchLiveCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, 50)

	news, err := p.FetchLiveNews(context.Background())
	require.NoError(t, err)
	assert.Len(t, news, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.FetchLiveNews(ctx)
	assert.ErrorIs(t, err, models.ErrUpstreamUnreachable)
}

func TestProvider_GenerateFallback(t *testing.T) {
	p, _ := setup(t, http.StatusOK, http.StatusOK)
	d := p.GenerateFallback()
	assert.False(t, d.Empty())
	assert.NotEqual(t, "N/A", d.MarketSummary.TopGainer.Name)
}
