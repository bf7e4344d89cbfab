package upstream

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	xhttp "FinDash/pkg/http"
	"FinDash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCurrency(url string) *CurrencyClient {
	return NewCurrencyClient(xhttp.NewClient(), url, time.Second, WithCurrencyRand(rand.New(rand.NewSource(1))))
}

func TestCurrencyClient_InvertsRates(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"base":"USD","date":"2024-03-01","rates":{"EUR":0.85,"USD":1,"XYZ":3}}`)

	rates, err := newCurrency(srv.URL).FetchCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1, "only tracked codes are kept")

	eur := rates[0]
	assert.Equal(t, "EUR", eur.Code)
	assert.Equal(t, "Euro", eur.Name)
	assert.Equal(t, "€", eur.Symbol)
	assert.InDelta(t, 1.1765, eur.Rate, 1e-4)
	assert.InDelta(t, 0.85, 1/eur.Rate, 1e-12)
	assert.InDelta(t, eur.Change/0.85*100, eur.ChangePercent, 1e-9)
	assert.LessOrEqual(t, eur.Change, 0.01)
}

func TestCurrencyClient_InversionRoundTrip(t *testing.T) {
	for _, r := range []float64{0.73, 1, 110.45, 23450, 0.0001} {
		body := fmt.Sprintf(`{"base":"USD","rates":{"JPY":%g}}`, r)
		srv := serve(t, http.StatusOK, body)

		rates, err := newCurrency(srv.URL).FetchCurrencies(context.Background())
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.InEpsilon(t, r, 1/rates[0].Rate, 1e-12)
	}
}

func TestCurrencyClient_SkipsNonPositive(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"rates":{"EUR":0,"GBP":-1,"JPY":110}}`)

	rates, err := newCurrency(srv.URL).FetchCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "JPY", rates[0].Code)
}

func TestCurrencyClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"http error", http.StatusBadGateway, "bad gateway", models.ErrUpstreamHTTP},
		{"malformed json", http.StatusOK, `{"rates":`, models.ErrMalformedResponse},
		{"wrong shape", http.StatusOK, `{"rates":"nope"}`, models.ErrMalformedResponse},
		{"missing rates", http.StatusOK, `{"base":"USD"}`, models.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			_, err := newCurrency(srv.URL).FetchCurrencies(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var ue *models.UpstreamError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, SourceExchangeRate, ue.Source)
		})
	}
}

func TestCurrencyClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewCurrencyClient(xhttp.NewClient(), srv.URL, 20*time.Millisecond)
	_, err := c.FetchCurrencies(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstreamTimeout)
}

func TestCurrencyClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newCurrency(url).FetchCurrencies(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstreamUnreachable)
	assert.Equal(t, "UpstreamUnreachable", models.KindOf(err))
}

func TestCoinGecko_NormalizesAndTruncates(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000,"market_cap":360e9,"price_change_24h":-30,"price_change_percentage_24h":-1,"total_volume":1e10,"market_cap_rank":2},
		{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":60000,"market_cap":1.2e12,"price_change_24h":600,"price_change_percentage_24h":1,"total_volume":3e10,"market_cap_rank":1},
		{"id":"tether","symbol":"usdt","name":"Tether","current_price":1,"market_cap":100e9,"price_change_24h":0,"price_change_percentage_24h":0,"total_volume":5e10,"market_cap_rank":3}
	]`)

	c := NewCoinGeckoClient(xhttp.NewClient(), srv.URL, time.Second, 2)
	out, err := c.FetchCrypto(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "bitcoin", out[0].ID)
	assert.Equal(t, "BTC", out[0].Symbol)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 60000.0, out[0].Price)
	assert.Equal(t, 1.0, out[0].ChangePercent24h)
	assert.Equal(t, "ETH", out[1].Symbol)
}

func TestCoinGecko_ObjectIsMalformed(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"error":"rate limited"}`)

	_, err := NewCoinGeckoClient(xhttp.NewClient(), srv.URL, time.Second, 50).FetchCrypto(context.Background())
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func TestCoinlore_ParsesStringNumbers(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"data":[
		{"id":"80","symbol":"ETH","name":"Ethereum","nameid":"ethereum","rank":2,"price_usd":"3000.50","percent_change_24h":"-2.00","market_cap_usd":"360000000000","volume24":12000000000},
		{"id":"90","symbol":"BTC","name":"Bitcoin","nameid":"bitcoin","rank":1,"price_usd":"60000","percent_change_24h":"1.5","market_cap_usd":"1200000000000","volume24":"30000000000"},
		{"id":"91","symbol":"NEW","name":"New Coin","nameid":"","rank":0,"price_usd":"","percent_change_24h":null,"market_cap_usd":"1","volume24":0}
	]}`)

	out, err := NewCoinloreClient(xhttp.NewClient(), srv.URL, time.Second, 50).FetchCrypto(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	btc := out[0]
	assert.Equal(t, "bitcoin", btc.ID)
	assert.Equal(t, 60000.0, btc.Price)
	assert.Equal(t, 1.2e12, btc.MarketCap)
	assert.InDelta(t, 900, btc.Change24h, 1e-9)
	assert.Equal(t, 3e10, btc.Volume24h)

	eth := out[1]
	assert.InDelta(t, 3000.5, eth.Price, 1e-9)
	assert.InDelta(t, -60.01, eth.Change24h, 1e-9)

	assert.Equal(t, "91", out[2].ID)
	assert.Equal(t, 3, out[2].Rank, "missing rank is filled from position")
}

func TestCoinlore_BadNumber(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"data":[{"price_usd":"abc"}]}`)

	_, err := NewCoinloreClient(xhttp.NewClient(), srv.URL, time.Second, 50).FetchCrypto(context.Background())
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

type stubCrypto struct {
	name  string
	items []models.CryptoAsset
	err   error
	calls int
}

func (s *stubCrypto) Name() string { return s.name }

func (s *stubCrypto) FetchCrypto(context.Context) ([]models.CryptoAsset, error) {
	s.calls++
	return s.items, s.err
}

func TestCryptoChain(t *testing.T) {
	live := []models.CryptoAsset{{ID: "bitcoin", Rank: 1}}
	down := &models.UpstreamError{Kind: models.ErrUpstreamHTTP, Source: "p", Status: 503}

	t.Run("primary ok skips backup", func(t *testing.T) {
		p, b := &stubCrypto{name: "p", items: live}, &stubCrypto{name: "b"}
		out, err := NewCryptoChain(logger.Nop(), nil, p, b).FetchCrypto(context.Background())
		require.NoError(t, err)
		assert.Equal(t, live, out)
		assert.Zero(t, b.calls)
	})

	t.Run("primary fails backup ok", func(t *testing.T) {
		p, b := &stubCrypto{name: "p", err: down}, &stubCrypto{name: "b", items: live}
		out, err := NewCryptoChain(logger.Nop(), nil, p, b).FetchCrypto(context.Background())
		require.NoError(t, err)
		assert.Equal(t, live, out)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("both fail", func(t *testing.T) {
		timeout := &models.UpstreamError{Kind: models.ErrUpstreamTimeout, Source: "b", Err: context.DeadlineExceeded}
		p, b := &stubCrypto{name: "p", err: down}, &stubCrypto{name: "b", err: timeout}
		_, err := NewCryptoChain(logger.Nop(), nil, p, b).FetchCrypto(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrUpstreamTimeout)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("no backup", func(t *testing.T) {
		p := &stubCrypto{name: "p", err: down}
		_, err := NewCryptoChain(logger.Nop(), nil, p, nil).FetchCrypto(context.Background())
		assert.ErrorIs(t, err, models.ErrUpstreamHTTP)
	})
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify("x", nil))
	assert.ErrorIs(t, Classify("x", &xhttp.StatusError{StatusCode: 500}), models.ErrUpstreamHTTP)
	assert.ErrorIs(t, Classify("x", &xhttp.DecodeError{Err: errors.New("eof")}), models.ErrMalformedResponse)
	assert.ErrorIs(t, Classify("x", fmt.Errorf("get: %w", context.DeadlineExceeded)), models.ErrUpstreamTimeout)
	assert.ErrorIs(t, Classify("x", errors.New("connection refused")), models.ErrUpstreamUnreachable)

	pre := &models.UpstreamError{Kind: models.ErrUpstreamHTTP, Source: "y"}
	assert.Same(t, pre, Classify("x", pre))
}
